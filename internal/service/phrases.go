package service

import (
	"strings"

	"unitfinder/internal/model"
)

// titleStopWords are dropped when cleaning the page title into a search
// phrase: prepositions, marketing adjectives, unit/measure words, generic
// property nouns and country/city names. None of them ever appear in a
// registry project name.
var titleStopWords = map[string]struct{}{
	"for": {}, "sale": {}, "rent": {}, "in": {}, "at": {}, "a": {}, "an": {},
	"bed": {}, "bedroom": {}, "bedrooms": {}, "bathroom": {}, "bathrooms": {},
	"with": {}, "and": {}, "buy": {}, "aed": {}, "sqft": {}, "sq": {}, "ft": {},
	"br": {}, "-": {}, "of": {}, "on": {}, "by": {}, "to": {}, "from": {},
	"dubai": {}, "uae": {}, "property": {},
	"villa": {}, "apartment": {}, "townhouse": {}, "penthouse": {}, "duplex": {},
	"studio": {}, "flat": {}, "unit": {},
	"elegant": {}, "luxury": {}, "luxurious": {}, "beautiful": {}, "stunning": {},
	"spacious": {}, "brand": {}, "new": {}, "modern": {}, "exclusive": {},
	"premium": {}, "amazing": {}, "gorgeous": {},
}

// breadcrumbLabels are generic navigation entries that carry no location
// signal.
var breadcrumbLabels = map[string]struct{}{
	"dubai": {}, "home": {}, "buy": {}, "rent": {}, "properties": {}, "uae": {},
}

// PhraseExtractor derives an ordered, duplicate-free list of search phrases
// from listing attributes, most specific first.
type PhraseExtractor struct {
	minLen int
}

// NewPhraseExtractor creates an extractor. minLen is the minimum phrase
// length in characters after trimming.
func NewPhraseExtractor(minLen int) *PhraseExtractor {
	return &PhraseExtractor{minLen: minLen}
}

// Extract builds the phrase list. Phrases are lower-cased; earlier phrases
// are more specific. Returns an empty list when no usable signal exists.
func (e *PhraseExtractor) Extract(listing *model.ListingAttributes) []string {
	b := phraseBuilder{minLen: e.minLen, seen: map[string]struct{}{}}

	// 1. Address hierarchy, narrowest first, then the regulatory zone name.
	sub := deref(listing.SubCommunity)
	comm := deref(listing.Community)
	master := deref(listing.MasterCommunity)
	b.add(sub)
	if comm != sub {
		b.add(comm)
	}
	if master != comm {
		b.add(master)
	}
	b.add(deref(listing.ZoneName))

	// 2. URL slug location: the full token string plus every contiguous
	// left/right split. The slug concatenates a master project name of
	// unknown length with a project name of unknown length, so both sides
	// of every split are candidates.
	if loc := deref(listing.URLLocation); loc != "" {
		b.add(loc)
		tokens := strings.Fields(loc)
		for k := 1; k < len(tokens); k++ {
			b.add(strings.Join(tokens[:k], " "))
			b.add(strings.Join(tokens[k:], " "))
		}
	}

	// 3. Cleaned page title.
	if title := listing.BestTitle(); title != "" {
		words := splitTitle(title)
		kept := words[:0]
		for _, w := range words {
			if len(w) <= 1 {
				continue
			}
			if _, stop := titleStopWords[strings.ToLower(w)]; stop {
				continue
			}
			kept = append(kept, w)
		}
		if len(kept) >= 2 {
			b.add(strings.Join(kept, " "))
		}
	}

	// 4. Breadcrumbs, minus generic navigation labels.
	for _, crumb := range listing.Breadcrumbs {
		c := strings.TrimSpace(crumb)
		if _, generic := breadcrumbLabels[strings.ToLower(c)]; generic {
			continue
		}
		b.add(c)
	}

	return b.phrases
}

type phraseBuilder struct {
	minLen  int
	seen    map[string]struct{}
	phrases []string
}

// add appends a phrase if it meets the minimum length and has not been seen
// case-insensitively. First occurrence wins, preserving specificity order.
func (b *phraseBuilder) add(phrase string) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if len(p) < b.minLen {
		return
	}
	if _, dup := b.seen[p]; dup {
		return
	}
	b.seen[p] = struct{}{}
	b.phrases = append(b.phrases, p)
}

// splitTitle tokenizes on whitespace, commas, hyphens, slashes and pipes.
func splitTitle(title string) []string {
	return strings.FieldsFunc(title, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '-', '/', '|':
			return true
		}
		return false
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
