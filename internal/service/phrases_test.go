package service

import (
	"reflect"
	"testing"

	"unitfinder/internal/model"
)

func strP(s string) *string { return &s }

func TestPhraseExtractor_SpecificityOrdering(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	listing := &model.ListingAttributes{
		SourceURL:       "https://example.com",
		SubCommunity:    strP("Farm Gardens 1"),
		Community:       strP("Farm Gardens"),
		MasterCommunity: strP("The Valley"),
	}

	phrases := extractor.Extract(listing)
	want := []string{"farm gardens 1", "farm gardens", "the valley"}
	if !reflect.DeepEqual(phrases, want) {
		t.Errorf("Extract() = %v, want %v", phrases, want)
	}
}

func TestPhraseExtractor_SplitCoverage(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	listing := &model.ListingAttributes{
		SourceURL:   "https://example.com",
		URLLocation: strP("the valley farm gardens"),
	}

	phrases := extractor.Extract(listing)

	for _, want := range []string{"the valley farm gardens", "the valley", "farm gardens"} {
		if !containsPhrase(phrases, want) {
			t.Errorf("Extract() = %v, missing %q", phrases, want)
		}
	}

	// The full token string is the most specific phrase.
	if len(phrases) == 0 || phrases[0] != "the valley farm gardens" {
		t.Errorf("Extract() first phrase = %v, want the full location string", phrases)
	}

	// "the" is under the minimum length and must not appear.
	if containsPhrase(phrases, "the") {
		t.Errorf("Extract() = %v, contains sub-minimum phrase %q", phrases, "the")
	}
}

func TestPhraseExtractor_TitleCleaning(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	tests := []struct {
		name  string
		title string
		want  string // expected phrase, empty means no phrase emitted
	}{
		{
			name:  "marketing words removed",
			title: "Elegant Luxury Villa for Sale in Marina Heights Dubai",
			want:  "marina heights",
		},
		{
			name:  "hyphen and pipe separators",
			title: "Marina Heights - 3BR | Property",
			want:  "marina heights 3br",
		},
		{
			name:  "all stop words yields nothing",
			title: "Villa for Sale in Dubai",
			want:  "",
		},
		{
			name:  "single meaningful token is dropped",
			title: "Stunning Burj for rent",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := &model.ListingAttributes{
				SourceURL: "https://example.com",
				Title:     strP(tt.title),
			}
			phrases := extractor.Extract(listing)

			if tt.want == "" {
				if len(phrases) != 0 {
					t.Errorf("Extract() = %v, want no phrases", phrases)
				}
				return
			}
			if len(phrases) != 1 || !containsPhrase(phrases, tt.want) {
				t.Errorf("Extract() = %v, want [%q]", phrases, tt.want)
			}
		})
	}
}

func TestPhraseExtractor_Breadcrumbs(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	listing := &model.ListingAttributes{
		SourceURL:   "https://example.com",
		Breadcrumbs: []string{"Home", "Buy", "Dubai", "The Valley", "Farm Gardens"},
	}

	phrases := extractor.Extract(listing)
	want := []string{"the valley", "farm gardens"}
	if !reflect.DeepEqual(phrases, want) {
		t.Errorf("Extract() = %v, want %v", phrases, want)
	}
}

func TestPhraseExtractor_GlobalDedup(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	// "Farm Gardens" appears as community, inside the URL location splits and
	// as a breadcrumb; it must be emitted once, at its first (most specific)
	// position.
	listing := &model.ListingAttributes{
		SourceURL:    "https://example.com",
		SubCommunity: strP("Farm Gardens"),
		URLLocation:  strP("the valley farm gardens"),
		Breadcrumbs:  []string{"Farm Gardens", "The Valley"},
	}

	phrases := extractor.Extract(listing)

	if len(phrases) == 0 || phrases[0] != "farm gardens" {
		t.Fatalf("Extract() = %v, want %q first", phrases, "farm gardens")
	}

	counts := map[string]int{}
	for _, p := range phrases {
		counts[p]++
	}
	for p, n := range counts {
		if n > 1 {
			t.Errorf("phrase %q emitted %d times", p, n)
		}
	}
}

func TestPhraseExtractor_EmptyInput(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	listing := &model.ListingAttributes{SourceURL: "https://example.com"}
	if phrases := extractor.Extract(listing); len(phrases) != 0 {
		t.Errorf("Extract() = %v, want empty list", phrases)
	}
}

func TestPhraseExtractor_Deterministic(t *testing.T) {
	extractor := NewPhraseExtractor(4)

	listing := &model.ListingAttributes{
		SourceURL:       "https://example.com",
		SubCommunity:    strP("Farm Gardens 1"),
		Community:       strP("Farm Gardens"),
		MasterCommunity: strP("The Valley"),
		ZoneName:        strP("Al Yufrah 1"),
		URLLocation:     strP("the valley farm gardens 1"),
		Title:           strP("Elegant Villa in Farm Gardens The Valley"),
		Breadcrumbs:     []string{"The Valley", "Farm Gardens"},
	}

	first := extractor.Extract(listing)
	for i := 0; i < 10; i++ {
		if got := extractor.Extract(listing); !reflect.DeepEqual(got, first) {
			t.Fatalf("Extract() not deterministic: %v vs %v", got, first)
		}
	}
}

func containsPhrase(phrases []string, want string) bool {
	for _, p := range phrases {
		if p == want {
			return true
		}
	}
	return false
}
