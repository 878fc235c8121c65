package model

// ListingAttributes holds the textual signals scraped from a property portal
// listing page. Every field except SourceURL is optional; the matcher degrades
// gracefully when signals are missing.
type ListingAttributes struct {
	SourceURL       string   `json:"source_url" binding:"required"`
	PropertyType    *string  `json:"property_type,omitempty"` // villa/apartment/townhouse/penthouse/duplex/studio
	Bedrooms        *int     `json:"bedrooms,omitempty"`
	Bathrooms       *int     `json:"bathrooms,omitempty"`
	AreaSqft        *float64 `json:"area_sqft,omitempty"`
	Title           *string  `json:"title,omitempty"`
	AlternateTitle  *string  `json:"alternate_title,omitempty"` // og:title / JSON-LD name fallback
	URLLocation     *string  `json:"url_location,omitempty"`    // space-joined tokens from the URL slug
	FullAddress     *string  `json:"full_address,omitempty"`
	SubCommunity    *string  `json:"sub_community,omitempty"`
	Community       *string  `json:"community,omitempty"`
	MasterCommunity *string  `json:"master_community,omitempty"`
	ZoneName        *string  `json:"zone_name,omitempty"` // regulatory disclosure, shares the registry's area vocabulary
	Breadcrumbs     []string `json:"breadcrumbs,omitempty"`
	Reference       *string  `json:"reference,omitempty"`
	ListingID       *string  `json:"listing_id,omitempty"`
}

// BestTitle returns the first available title variant.
func (l *ListingAttributes) BestTitle() string {
	if l.Title != nil && *l.Title != "" {
		return *l.Title
	}
	if l.AlternateTitle != nil {
		return *l.AlternateTitle
	}
	return ""
}

// CommunityOrSub prefers the community name and falls back to the
// sub-community. Used by the zone-anchored search strategy.
func (l *ListingAttributes) CommunityOrSub() string {
	if l.Community != nil && *l.Community != "" {
		return *l.Community
	}
	if l.SubCommunity != nil {
		return *l.SubCommunity
	}
	return ""
}
