package model

// LookupRequest asks the server to scrape a portal listing URL and match it
// against the registry.
type LookupRequest struct {
	URL string `json:"url" binding:"required"`
}

// LookupResponse is returned by both the URL lookup and the raw-attributes
// match endpoints. An empty Matches slice is a valid answer, not an error.
type LookupResponse struct {
	Listing *ListingAttributes `json:"listing"`
	Phrases []string           `json:"phrases,omitempty"`
	Matches []ScoredCandidate  `json:"matches"`
	Total   int                `json:"total"`
	Took    int64              `json:"took_ms"`
	Cached  bool               `json:"cached,omitempty"`
}

// RegistryStats describes the loaded registry snapshot.
type RegistryStats struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}
