package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"unitfinder/internal/model"
	"unitfinder/internal/service"

	"github.com/gin-gonic/gin"
)

// stubStore answers every project query with the same canned records.
type stubStore struct {
	records []model.RegistryRecord
	err     error
}

func (s *stubStore) SearchByProject(context.Context, string) ([]model.RegistryRecord, error) {
	return s.records, s.err
}

func (s *stubStore) SearchByMasterProject(context.Context, string) ([]model.RegistryRecord, error) {
	return nil, s.err
}

func (s *stubStore) SearchByArea(context.Context, string) ([]model.RegistryRecord, error) {
	return nil, s.err
}

func (s *stubStore) SearchAreaWithProject(context.Context, string, string) ([]model.RegistryRecord, error) {
	return nil, s.err
}

func (s *stubStore) SearchAreaWithMaster(context.Context, string, string) ([]model.RegistryRecord, error) {
	return nil, s.err
}

func (s *stubStore) SearchProjectWithMaster(context.Context, string, string) ([]model.RegistryRecord, error) {
	return nil, s.err
}

func newTestRouter(store service.RegistryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	matcher := service.NewMatcher(
		store,
		service.NewPhraseExtractor(4),
		service.NewCandidateSearcher(true),
		service.NewRanker(50, 25),
		20,
	)
	h := NewLookupHandler(nil, matcher, nil)

	router := gin.New()
	router.POST("/api/v1/lookup", h.Lookup)
	router.POST("/api/v1/match", h.Match)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMatch_ReturnsRankedCandidates(t *testing.T) {
	store := &stubStore{records: []model.RegistryRecord{
		model.NewRegistryRecord(map[string]string{
			model.ColProjectName: "Farm Gardens",
			model.ColUnitNumber:  "101",
			model.ColLandNumber:  "7",
		}),
	}}
	router := newTestRouter(store)

	w := doJSON(t, router, "/api/v1/match", gin.H{
		"source_url": "https://www.propertyfinder.ae/en/plp/buy/villa-1.html",
		"community":  "Farm Gardens",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp model.LookupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 1 || len(resp.Matches) != 1 {
		t.Fatalf("total = %d, matches = %d, want 1", resp.Total, len(resp.Matches))
	}
	if got := resp.Matches[0].Record.UnitNumber; got != "101" {
		t.Errorf("unit = %q, want 101", got)
	}
	if resp.Matches[0].Band == "" {
		t.Error("band missing from scored candidate")
	}
}

func TestMatch_NoCandidatesIsOK(t *testing.T) {
	router := newTestRouter(&stubStore{})

	w := doJSON(t, router, "/api/v1/match", gin.H{
		"source_url": "https://www.propertyfinder.ae/en/plp/buy/villa-1.html",
		"community":  "Nowhere Place",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty result", w.Code)
	}

	var resp model.LookupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 0 || resp.Matches == nil {
		t.Errorf("want an explicit empty matches list, got total=%d matches=%v", resp.Total, resp.Matches)
	}
}

func TestMatch_StoreFailureIs503(t *testing.T) {
	router := newTestRouter(&stubStore{err: errors.New("connection refused")})

	w := doJSON(t, router, "/api/v1/match", gin.H{
		"source_url": "https://www.propertyfinder.ae/en/plp/buy/villa-1.html",
		"community":  "Farm Gardens",
	})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when the registry store fails", w.Code)
	}
}

func TestMatch_InvalidBody(t *testing.T) {
	router := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLookup_RejectsForeignURL(t *testing.T) {
	router := newTestRouter(&stubStore{})

	w := doJSON(t, router, "/api/v1/lookup", gin.H{
		"url": "https://example.com/some-listing",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a non-portal URL", w.Code)
	}
}
