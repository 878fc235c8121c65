package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"unitfinder/internal/model"
)

// Score weights. The phrase weights are scaled by the phrase's word count
// relative to the most specific phrase, so a full project-name hit outranks a
// fragment hit.
const (
	weightProjectPhrase     = 60.0
	weightProjectSimilarity = 30.0
	weightMasterPhrase      = 25.0
	weightAreaWord          = 5.0
	weightZoneInArea        = 20.0
	weightPropertyType      = 15.0
	weightBedrooms          = 10.0
	weightAreaSize          = 12.0
)

// sqmToSqft converts the registry's square-meter areas to the portal's
// square feet.
const sqmToSqft = 10.764

// areaSizeTolerance is the relative difference accepted as a size match.
const areaSizeTolerance = 0.15

// rankStopWords are excluded from the per-word area comparison.
var rankStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "of": {}, "in": {}, "at": {}, "a": {},
	"an": {}, "to": {}, "by": {}, "on": {}, "from": {},
}

// Ranker scores candidates against the original listing attributes and sorts
// them. Scoring is additive; a numeric field that fails to parse contributes
// zero instead of aborting the ranking.
type Ranker struct {
	bandHigh   float64
	bandMedium float64
}

// NewRanker creates a ranker with the configured match-strength band
// thresholds.
func NewRanker(bandHigh, bandMedium float64) *Ranker {
	return &Ranker{bandHigh: bandHigh, bandMedium: bandMedium}
}

// Rank scores every candidate and returns them sorted by score descending.
// The sort is stable: ties keep retrieval order, so the result is
// deterministic for a fixed snapshot.
func (r *Ranker) Rank(candidates []model.RegistryRecord, listing *model.ListingAttributes, phrases []string) []model.ScoredCandidate {
	// Distinct significant words across all phrases, for the area term check.
	terms := map[string]struct{}{}
	for _, p := range phrases {
		for _, w := range strings.Fields(p) {
			if _, stop := rankStopWords[w]; !stop {
				terms[w] = struct{}{}
			}
		}
	}

	joined := strings.ToLower(strings.Join(phrases, " "))
	zone := strings.ToLower(deref(listing.ZoneName))

	// Word count of the most specific phrase, the denominator for phrase
	// weight scaling.
	baseWords := 1
	if len(phrases) > 0 {
		if n := len(strings.Fields(phrases[0])); n > 1 {
			baseWords = n
		}
	}

	scored := make([]model.ScoredCandidate, 0, len(candidates))
	for _, record := range candidates {
		score := 0.0

		project := strings.ToLower(record.ProjectName)
		master := strings.ToLower(record.MasterProject)
		area := strings.ToLower(record.AreaName)

		// Phrase hits in the project name, the strongest signal.
		for _, phrase := range phrases {
			if strings.Contains(project, phrase) {
				score += weightProjectPhrase * float64(len(strings.Fields(phrase))) / float64(baseWords)
			}
		}

		// Overall similarity of the combined phrases to the project name.
		if project != "" {
			score += weightProjectSimilarity * matchRatio(joined, project)
		}

		// Phrase hits in the master project name.
		for _, phrase := range phrases {
			if strings.Contains(master, phrase) {
				score += weightMasterPhrase * float64(len(strings.Fields(phrase))) / float64(baseWords)
			}
		}

		// Individual significant words in the area name.
		for term := range terms {
			if strings.Contains(area, term) {
				score += weightAreaWord
			}
		}

		// Regulatory zone name inside the registry area name.
		if zone != "" && strings.Contains(area, zone) {
			score += weightZoneInArea
		}

		if typeMatches(listing.PropertyType, record.PropertyType, record.PropertySubType) {
			score += weightPropertyType
		}

		if bedroomsMatch(listing.Bedrooms, record.Rooms) {
			score += weightBedrooms
		}

		if areaSizeMatch(listing.AreaSqft, record.ActualArea) {
			score += weightAreaSize
		}

		score = math.Round(score*10) / 10
		scored = append(scored, model.ScoredCandidate{
			Record:     record,
			MatchScore: score,
			Band:       r.band(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	return scored
}

// band classifies a score into a match-strength band for display.
func (r *Ranker) band(score float64) string {
	switch {
	case score > r.bandHigh:
		return model.BandHigh
	case score > r.bandMedium:
		return model.BandMedium
	default:
		return model.BandLow
	}
}

// typeMatches reports whether the listing property type matches the record's
// type or subtype by containment in either direction.
func typeMatches(listingType *string, recordType, recordSubType string) bool {
	if listingType == nil {
		return false
	}
	lt := strings.ToLower(strings.TrimSpace(*listingType))
	if lt == "" {
		return false
	}
	for _, rt := range []string{strings.ToLower(recordType), strings.ToLower(recordSubType)} {
		if rt == "" {
			continue
		}
		if strings.Contains(rt, lt) || strings.Contains(lt, rt) {
			return true
		}
	}
	return false
}

// bedroomsMatch compares the listing bedroom count with the registry room
// count. The registry stores rooms as text; a value that fails to parse
// contributes nothing.
func bedroomsMatch(bedrooms *int, rooms string) bool {
	if bedrooms == nil {
		return false
	}
	rooms = strings.TrimSpace(rooms)
	if rooms == "" {
		return false
	}
	parsed, err := strconv.ParseFloat(rooms, 64)
	if err != nil {
		return false
	}
	return *bedrooms == int(parsed)
}

// areaSizeMatch reports whether the registry area (square meters, stored as
// text) converted to square feet is within tolerance of the listing size.
func areaSizeMatch(areaSqft *float64, actualArea string) bool {
	if areaSqft == nil || *areaSqft <= 0 {
		return false
	}
	actualArea = strings.TrimSpace(actualArea)
	if actualArea == "" {
		return false
	}
	sqm, err := strconv.ParseFloat(actualArea, 64)
	if err != nil {
		return false
	}
	recordSqft := sqm * sqmToSqft
	return math.Abs(*areaSqft-recordSqft) < *areaSqft*areaSizeTolerance
}
