// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maechanneler/patent-query-optimizer/internal/httputil"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleBody = `{
  "organic_results": [
    {
      "title": "Foldable wing assembly",
      "patent_number": "JP2020-123456A",
      "filing_date": "2020-01-15",
      "publication_date": "2020-08-06",
      "inventors": ["Tanaka", "Suzuki"],
      "assignee": "Example Aerospace KK",
      "snippet": "A foldable wing for compact storage.",
      "link": "https://patents.google.com/patent/JP2020123456A"
    },
    {
      "title": "Wing hinge mechanism",
      "patent_id": "patent/US9876543B2/en",
      "snippet": "A hinge for folding aircraft wings."
    }
  ]
}`

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 100,
		Country:    "JP",
		Language:   "ja",
	}
}

func withServer(t *testing.T, handler http.HandlerFunc) *SerpAPIBackend {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := serpAPIBase
	serpAPIBase = ts.URL
	t.Cleanup(func() { serpAPIBase = old })

	return &SerpAPIBackend{Client: ts.Client(), APIKey: "test-key"}
}

func TestSerpAPISearchMapsFields(t *testing.T) {
	var gotQuery map[string]string
	b := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"engine":  q.Get("engine"),
			"q":       q.Get("q"),
			"num":     q.Get("num"),
			"patent":  q.Get("patent"),
			"hl":      q.Get("hl"),
			"api_key": q.Get("api_key"),
		}
		fmt.Fprint(w, sampleBody)
	})

	results, err := b.Search(context.Background(), "foldable wing drone", testCfg())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	want := map[string]string{
		"engine": "google_patents", "q": "foldable wing drone", "num": "100",
		"patent": "JP", "hl": "ja", "api_key": "test-key",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("request param %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	first := results[0]
	if first.Title != "Foldable wing assembly" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.PatentNumber != "JP2020-123456A" {
		t.Errorf("PatentNumber = %q", first.PatentNumber)
	}
	if first.Inventors != "Tanaka, Suzuki" {
		t.Errorf("Inventors = %q, want joined list", first.Inventors)
	}
	if first.Abstract != "A foldable wing for compact storage." {
		t.Errorf("Abstract = %q, want snippet text", first.Abstract)
	}
	if first.FilingDate != "2020-01-15" || first.PublicationDate != "2020-08-06" {
		t.Errorf("dates = %q / %q", first.FilingDate, first.PublicationDate)
	}

	// Absent fields default to empty; patent_number falls back to patent_id.
	second := results[1]
	if second.PatentNumber != "US9876543B2" {
		t.Errorf("PatentNumber = %q, want fallback from patent_id", second.PatentNumber)
	}
	if second.Assignee != "" || second.Inventors != "" {
		t.Errorf("absent fields not empty: %+v", second)
	}
}

func TestSerpAPISearchEmptyResults(t *testing.T) {
	b := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"organic_results": []}`)
	})

	results, err := b.Search(context.Background(), "no such invention", testCfg())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 (empty set is not an error)", len(results))
	}
}

func TestSerpAPISearchProviderError(t *testing.T) {
	b := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error": "Your searches for the month are exhausted."}`)
	})

	if _, err := b.Search(context.Background(), "q", testCfg()); err == nil {
		t.Error("Search() error = nil, want provider error")
	}
}

func TestSerpAPISearchHTTPError(t *testing.T) {
	b := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := b.Search(context.Background(), "q", testCfg()); err == nil {
		t.Error("Search() error = nil, want HTTP error")
	}
}

func TestSerpAPISearchRetriesOn429(t *testing.T) {
	var calls int32
	b := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, sampleBody)
	})

	results, err := b.Search(context.Background(), "q", testCfg())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2 after retry", len(results))
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSerpAPISearchEmptyQuery(t *testing.T) {
	b := &SerpAPIBackend{Client: http.DefaultClient, APIKey: "k"}
	if _, err := b.Search(context.Background(), "   ", testCfg()); err == nil {
		t.Error("Search() error = nil, want error for empty query")
	}
}

func TestSerpAPISearchMissingKey(t *testing.T) {
	b := &SerpAPIBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "q", testCfg()); err == nil {
		t.Error("Search() error = nil, want configuration error")
	}
}
