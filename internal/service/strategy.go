package service

import (
	"context"
	"strings"

	"unitfinder/internal/model"
)

// RegistryStore is the read-only query surface the strategies need. The
// Postgres repository implements it; tests substitute an in-memory fake.
type RegistryStore interface {
	SearchByProject(ctx context.Context, phrase string) ([]model.RegistryRecord, error)
	SearchByMasterProject(ctx context.Context, phrase string) ([]model.RegistryRecord, error)
	SearchByArea(ctx context.Context, phrase string) ([]model.RegistryRecord, error)
	SearchAreaWithProject(ctx context.Context, area, project string) ([]model.RegistryRecord, error)
	SearchAreaWithMaster(ctx context.Context, area, master string) ([]model.RegistryRecord, error)
	SearchProjectWithMaster(ctx context.Context, project, master string) ([]model.RegistryRecord, error)
}

// Strategy is one rung of the fallback chain. A strategy either finds
// candidates (terminating the chain) or returns an empty set so the next,
// broader strategy runs. Errors abort the whole search: a failing store is
// fatal, not a missing signal.
type Strategy interface {
	Name() string
	TryMatch(ctx context.Context, store RegistryStore, listing *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, error)
}

// CandidateSearcher runs the strategy chain in order and stops at the first
// strategy that yields results.
type CandidateSearcher struct {
	strategies []Strategy
}

// NewCandidateSearcher assembles the fallback chain. The zone-anchored
// strategy can be disabled by configuration; the rest of the chain is fixed.
func NewCandidateSearcher(zoneStrategy bool) *CandidateSearcher {
	strategies := []Strategy{}
	if zoneStrategy {
		strategies = append(strategies, zoneAnchoredStrategy{})
	}
	strategies = append(strategies,
		directProjectStrategy{},
		pairedProjectMasterStrategy{},
		masterProjectStrategy{},
		areaFallbackStrategy{},
		singleWordStrategy{},
	)
	return &CandidateSearcher{strategies: strategies}
}

// Search returns the raw candidate set and the name of the strategy that
// produced it. The set may contain duplicates by business key.
func (s *CandidateSearcher) Search(ctx context.Context, store RegistryStore, listing *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, string, error) {
	for _, strategy := range s.strategies {
		records, err := strategy.TryMatch(ctx, store, listing, phrases)
		if err != nil {
			return nil, strategy.Name(), err
		}
		if len(records) > 0 {
			return records, strategy.Name(), nil
		}
	}
	return nil, "", nil
}

// zoneAnchoredStrategy matches the regulatory zone name against the registry
// area and the community against the project name. The zone name is drawn
// from the registry's own vocabulary, making this the strongest signal.
type zoneAnchoredStrategy struct{}

func (zoneAnchoredStrategy) Name() string { return "zone_anchored" }

func (zoneAnchoredStrategy) TryMatch(ctx context.Context, store RegistryStore, listing *model.ListingAttributes, _ []string) ([]model.RegistryRecord, error) {
	zone := deref(listing.ZoneName)
	community := listing.CommunityOrSub()
	if zone == "" || community == "" {
		return nil, nil
	}

	records, err := store.SearchAreaWithProject(ctx, zone, community)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	// Retry with the master community against the master project field.
	master := deref(listing.MasterCommunity)
	if master == "" {
		return nil, nil
	}
	return store.SearchAreaWithMaster(ctx, zone, master)
}

// directProjectStrategy tries each phrase against the project name in
// specificity order; the first phrase with any hits wins.
type directProjectStrategy struct{}

func (directProjectStrategy) Name() string { return "direct_project" }

func (directProjectStrategy) TryMatch(ctx context.Context, store RegistryStore, _ *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, error) {
	for _, phrase := range phrases {
		records, err := store.SearchByProject(ctx, phrase)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// pairedProjectMasterStrategy splits the URL slug location at every point
// into (master candidate, project candidate) pairs and queries both fields
// conjunctively, shortest master first.
type pairedProjectMasterStrategy struct{}

func (pairedProjectMasterStrategy) Name() string { return "paired_project_master" }

func (pairedProjectMasterStrategy) TryMatch(ctx context.Context, store RegistryStore, listing *model.ListingAttributes, _ []string) ([]model.RegistryRecord, error) {
	loc := deref(listing.URLLocation)
	if loc == "" {
		return nil, nil
	}

	tokens := strings.Fields(strings.ToLower(loc))
	for k := 1; k < len(tokens); k++ {
		masterCandidate := strings.Join(tokens[:k], " ")
		projectCandidate := strings.Join(tokens[k:], " ")
		if len(masterCandidate) <= 2 || len(projectCandidate) <= 2 {
			continue
		}
		records, err := store.SearchProjectWithMaster(ctx, projectCandidate, masterCandidate)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// masterProjectStrategy falls back to matching phrases against the master
// project name.
type masterProjectStrategy struct{}

func (masterProjectStrategy) Name() string { return "master_project" }

func (masterProjectStrategy) TryMatch(ctx context.Context, store RegistryStore, _ *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, error) {
	for _, phrase := range phrases {
		if len(phrase) <= 3 {
			continue
		}
		records, err := store.SearchByMasterProject(ctx, phrase)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// areaFallbackStrategy falls back to matching phrases against the area name.
type areaFallbackStrategy struct{}

func (areaFallbackStrategy) Name() string { return "area_fallback" }

func (areaFallbackStrategy) TryMatch(ctx context.Context, store RegistryStore, _ *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, error) {
	for _, phrase := range phrases {
		if len(phrase) <= 3 {
			continue
		}
		records, err := store.SearchByArea(ctx, phrase)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// noiseWords are generic structure/region nouns stripped before the
// single-word last resort.
var noiseWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "villa": {}, "apartment": {}, "tower": {},
	"building": {}, "residence": {}, "residences": {}, "dubai": {}, "phase": {},
	"block": {}, "cluster": {},
}

// singleWordStrategy is the last resort: individual significant words from
// each phrase against the project name.
type singleWordStrategy struct{}

func (singleWordStrategy) Name() string { return "single_word" }

func (singleWordStrategy) TryMatch(ctx context.Context, store RegistryStore, _ *model.ListingAttributes, phrases []string) ([]model.RegistryRecord, error) {
	for _, phrase := range phrases {
		for _, word := range strings.Fields(phrase) {
			if len(word) <= 3 {
				continue
			}
			if _, noise := noiseWords[word]; noise {
				continue
			}
			records, err := store.SearchByProject(ctx, word)
			if err != nil {
				return nil, err
			}
			if len(records) > 0 {
				return records, nil
			}
		}
	}
	return nil, nil
}
