package service

import (
	"context"

	"unitfinder/internal/model"
	"unitfinder/internal/observability"
)

// Matcher resolves listing attributes to ranked registry candidates. It is
// stateless per lookup and safe for concurrent use: the store handle is
// read-only and every intermediate value is request-scoped.
type Matcher struct {
	store      RegistryStore
	extractor  *PhraseExtractor
	searcher   *CandidateSearcher
	ranker     *Ranker
	maxResults int
}

// NewMatcher creates the matching pipeline.
func NewMatcher(store RegistryStore, extractor *PhraseExtractor, searcher *CandidateSearcher, ranker *Ranker, maxResults int) *Matcher {
	return &Matcher{
		store:      store,
		extractor:  extractor,
		searcher:   searcher,
		ranker:     ranker,
		maxResults: maxResults,
	}
}

// MatchResult carries the ranked candidates plus the signals that produced
// them, for display and diagnostics.
type MatchResult struct {
	Phrases    []string
	Strategy   string
	Candidates []model.ScoredCandidate
}

// FindMatches runs the full pipeline: phrase extraction, the strategy
// fallback chain, ranking, and business-key deduplication. A listing that
// matches nothing yields an empty candidate list, not an error; errors are
// reserved for a failing store.
func (m *Matcher) FindMatches(ctx context.Context, listing *model.ListingAttributes) (*MatchResult, error) {
	phrases := m.extractor.Extract(listing)
	if len(phrases) == 0 {
		return &MatchResult{Phrases: phrases}, nil
	}

	records, strategy, err := m.searcher.Search(ctx, m.store, listing, phrases)
	if err != nil {
		return nil, err
	}
	if strategy != "" {
		observability.StrategyHits.WithLabelValues(strategy).Inc()
	}

	scored := m.ranker.Rank(records, listing, phrases)
	deduped := dedupe(scored, m.maxResults)

	return &MatchResult{
		Phrases:    phrases,
		Strategy:   strategy,
		Candidates: deduped,
	}, nil
}

// dedupe collapses records sharing a business key, keeping the first
// (highest-ranked) occurrence, and truncates to the result cap. The input
// must already be sorted by score.
func dedupe(scored []model.ScoredCandidate, limit int) []model.ScoredCandidate {
	seen := map[model.BusinessKey]struct{}{}
	unique := make([]model.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		key := c.Record.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}
