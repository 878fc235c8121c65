package scraper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"unitfinder/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// propertyTypes recognized in URL slugs.
var propertyTypes = []string{"villa", "apartment", "townhouse", "penthouse", "duplex", "studio"}

var (
	titleSuffixRe = regexp.MustCompile(`(?i)\s*\|\s*Property Finder.*$`)
	bedroomsRe    = regexp.MustCompile(`(?i)(\d+)\s*(?:Bed(?:room)?s?|BR)\b`)
	bedroomsAltRe = regexp.MustCompile(`(?i)Bedrooms?\s*(\d+)`)
	bathroomsRe   = regexp.MustCompile(`(?i)Bathrooms?\s*(\d+)`)
	sqftRe        = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*sq\.?\s*ft\b`)
	zoneNameRe    = regexp.MustCompile(`Zone\s*name\s*[:\s]*([A-Za-z][A-Za-z\s\d]+)`)
	referenceRe   = regexp.MustCompile(`Reference\s*[:\s]*([A-Za-z0-9\-]+)`)
	// "Farm Gardens 1, Farm Gardens, The Valley, Dubai"
	addressLineRe = regexp.MustCompile(`([\w\s]+(?:,\s*[\w\s]+){2,3},\s*Dubai)`)
)

// Parse extracts listing attributes from a fetched page. It never fails on
// missing signals: whatever can be read is filled in, the rest stays nil.
func Parse(url, html string) (*model.ListingAttributes, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	listing := &model.ListingAttributes{SourceURL: url}

	parseSlug(url, listing)
	parseTitles(doc, listing)
	parseBreadcrumbs(doc, listing)
	parseJSONLD(doc, listing)

	// Short leaf elements first: labels like "Zone name" or the address line
	// live in their own node, and matching there keeps the greedy captures
	// from swallowing neighbouring text.
	for _, snippet := range shortElements(doc) {
		parseText(snippet, listing)
	}
	parseText(strings.Join(strings.Fields(doc.Text()), " "), listing)

	return listing, nil
}

// shortElements returns the trimmed text of leaf-sized elements.
func shortElements(doc *goquery.Document) []string {
	var snippets []string
	doc.Find("p, li, dd, dt, td, span, h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" && len(text) <= 150 {
			snippets = append(snippets, text)
		}
	})
	return snippets
}

// parseSlug reads the URL path: property type, listing id and the location
// token run between the city segment and the trailing id.
func parseSlug(url string, listing *model.ListingAttributes) {
	slug := strings.TrimSuffix(strings.TrimRight(url, "/"), ".html")
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	parts := strings.Split(strings.ToLower(slug), "-")
	if len(parts) == 0 {
		return
	}

	for _, pt := range propertyTypes {
		for _, part := range parts {
			if part == pt {
				listing.PropertyType = strPtr(capitalize(pt))
				break
			}
		}
		if listing.PropertyType != nil {
			break
		}
	}

	listing.ListingID = strPtr(parts[len(parts)-1])

	for i, part := range parts {
		if part == "dubai" && i+1 < len(parts)-1 {
			listing.URLLocation = strPtr(strings.Join(parts[i+1:len(parts)-1], " "))
			break
		}
	}
}

func parseTitles(doc *goquery.Document, listing *model.ListingAttributes) {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		listing.Title = strPtr(h1)
	}

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("property")
		if name == "" {
			name, _ = s.Attr("name")
		}
		if !strings.Contains(strings.ToLower(name), "og:title") {
			return true
		}
		if content, ok := s.Attr("content"); ok {
			listing.AlternateTitle = strPtr(titleSuffixRe.ReplaceAllString(content, ""))
		}
		return false
	})

	if listing.AlternateTitle == nil {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			listing.AlternateTitle = strPtr(titleSuffixRe.ReplaceAllString(title, ""))
		}
	}
}

// parseBreadcrumbs keeps anchors that point at category pages; those carry
// the location hierarchy.
func parseBreadcrumbs(doc *goquery.Document, listing *model.ListingAttributes) {
	seen := map[string]struct{}{}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "for-sale") && !strings.Contains(href, "for-rent") {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len(text) <= 2 {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		listing.Breadcrumbs = append(listing.Breadcrumbs, text)
	})
}

// jsonLD is the subset of schema.org markup the portal embeds.
type jsonLD struct {
	Name    string `json:"name"`
	Address *struct {
		StreetAddress   string `json:"streetAddress"`
		AddressLocality string `json:"addressLocality"`
	} `json:"address"`
	NumberOfRooms json.Number `json:"numberOfRooms"`
	FloorSize     *struct {
		Value json.Number `json:"value"`
	} `json:"floorSize"`
}

func parseJSONLD(doc *goquery.Document, listing *model.ListingAttributes) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var items []jsonLD
		if strings.HasPrefix(raw, "[") {
			if json.Unmarshal([]byte(raw), &items) != nil {
				return
			}
		} else {
			var one jsonLD
			if json.Unmarshal([]byte(raw), &one) != nil {
				return
			}
			items = []jsonLD{one}
		}

		for _, item := range items {
			if item.Name != "" && listing.Title == nil {
				listing.Title = strPtr(item.Name)
			}
			if item.Address != nil && listing.FullAddress == nil {
				listing.FullAddress = strPtr(item.Address.StreetAddress)
			}
			if listing.Bedrooms == nil {
				if rooms, err := item.NumberOfRooms.Int64(); err == nil && rooms > 0 {
					n := int(rooms)
					listing.Bedrooms = &n
				}
			}
			if item.FloorSize != nil && listing.AreaSqft == nil {
				str := strings.ReplaceAll(item.FloorSize.Value.String(), ",", "")
				if v, err := strconv.ParseFloat(str, 64); err == nil && v > 0 {
					listing.AreaSqft = &v
				}
			}
		}
	})
}

// parseText applies regex fallbacks over the flattened page text: bedroom and
// size figures, the regulatory zone name, the listing reference, and the
// comma-separated address line that yields the community hierarchy.
func parseText(text string, listing *model.ListingAttributes) {
	if listing.Bedrooms == nil {
		m := bedroomsRe.FindStringSubmatch(text)
		if m == nil {
			m = bedroomsAltRe.FindStringSubmatch(text)
		}
		if m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				listing.Bedrooms = &n
			}
		}
	}

	if listing.Bathrooms == nil {
		if m := bathroomsRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				listing.Bathrooms = &n
			}
		}
	}

	if listing.AreaSqft == nil {
		if m := sqftRe.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				listing.AreaSqft = &v
			}
		}
	}

	if listing.ZoneName == nil {
		if m := zoneNameRe.FindStringSubmatch(text); m != nil {
			listing.ZoneName = strPtr(m[1])
		}
	}

	if listing.Reference == nil {
		if m := referenceRe.FindStringSubmatch(text); m != nil {
			listing.Reference = strPtr(m[1])
		}
	}

	if listing.SubCommunity != nil {
		return
	}
	if m := addressLineRe.FindStringSubmatch(text); m != nil {
		if listing.FullAddress == nil {
			listing.FullAddress = strPtr(m[1])
		}
		parts := strings.Split(m[1], ",")
		if len(parts) >= 4 {
			listing.SubCommunity = strPtr(parts[0])
			listing.Community = strPtr(parts[1])
			listing.MasterCommunity = strPtr(parts[2])
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
