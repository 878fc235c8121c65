package handler

import (
	"net/http"
	"strings"
	"time"

	"unitfinder/internal/cache"
	"unitfinder/internal/model"
	"unitfinder/internal/observability"
	"unitfinder/internal/scraper"
	"unitfinder/internal/service"

	"github.com/gin-gonic/gin"
)

// LookupHandler handles listing lookup HTTP requests
type LookupHandler struct {
	scraper *scraper.Scraper
	matcher *service.Matcher
	cache   *cache.LookupCache
}

// NewLookupHandler creates a new lookup handler. cache may be nil.
func NewLookupHandler(s *scraper.Scraper, m *service.Matcher, c *cache.LookupCache) *LookupHandler {
	return &LookupHandler{scraper: s, matcher: m, cache: c}
}

// Lookup handles POST /api/v1/lookup: scrape a portal listing URL, then match
// it against the registry.
func (h *LookupHandler) Lookup(c *gin.Context) {
	var req model.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	url := strings.TrimSpace(req.URL)
	if !strings.Contains(strings.ToLower(url), "propertyfinder") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not a Property Finder URL"})
		return
	}

	ctx := c.Request.Context()

	if cached := h.cache.Get(ctx, url); cached != nil {
		observability.CacheHits.Inc()
		cached.Cached = true
		c.JSON(http.StatusOK, cached)
		return
	}

	listing, err := h.scraper.Scrape(ctx, url)
	if err != nil {
		observability.ScrapeFailures.Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to scrape listing: " + err.Error()})
		return
	}

	resp, ok := h.match(c, listing)
	if !ok {
		return
	}

	h.cache.Set(ctx, url, resp)
	c.JSON(http.StatusOK, resp)
}

// Match handles POST /api/v1/match: match pre-parsed listing attributes,
// bypassing the scraper. Used by callers that run their own parsing.
func (h *LookupHandler) Match(c *gin.Context) {
	var listing model.ListingAttributes
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, ok := h.match(c, &listing)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// match runs the pipeline and writes the error response on failure. A lookup
// with no candidates is a normal 200 with an empty list; only a failing
// registry store is an error, reported distinctly as 503.
func (h *LookupHandler) match(c *gin.Context, listing *model.ListingAttributes) (*model.LookupResponse, bool) {
	start := time.Now()
	observability.LookupsTotal.Inc()

	result, err := h.matcher.FindMatches(c.Request.Context(), listing)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Registry unavailable: " + err.Error()})
		return nil, false
	}

	if len(result.Candidates) == 0 {
		observability.LookupsEmpty.Inc()
	}

	matches := result.Candidates
	if matches == nil {
		matches = []model.ScoredCandidate{}
	}

	return &model.LookupResponse{
		Listing: listing,
		Phrases: result.Phrases,
		Matches: matches,
		Total:   len(matches),
		Took:    time.Since(start).Milliseconds(),
	}, true
}
