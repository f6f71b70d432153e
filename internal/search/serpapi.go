// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maechanneler/patent-query-optimizer/internal/httputil"
	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// serpAPIBase is the SerpAPI Google Patents endpoint. Declared as a var
// so tests can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// SerpAPIBackend queries the Google Patents engine through SerpAPI.
type SerpAPIBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SerpAPIBackend) Name() string { return "serpapi_google_patents" }

// Search queries SerpAPI and returns mapped PatentRecords in provider rank
// order. A response with no organic results yields an empty, non-nil-safe
// slice rather than an error.
func (b *SerpAPIBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.PatentRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if b.APIKey == "" {
		return nil, fmt.Errorf("SerpAPI key not configured")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	params := url.Values{
		"engine":  {"google_patents"},
		"q":       {query},
		"api_key": {b.APIKey},
		"num":     {strconv.Itoa(maxResults)},
	}
	if cfg.Country != "" {
		params.Set("patent", cfg.Country)
	}
	if cfg.Language != "" {
		params.Set("hl", cfg.Language)
	}

	reqURL := serpAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI returned HTTP %d", resp.StatusCode)
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SerpAPI response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", sr.Error)
	}

	records := make([]types.PatentRecord, 0, len(sr.OrganicResults))
	for _, p := range sr.OrganicResults {
		records = append(records, types.PatentRecord{
			Title:           p.Title,
			PatentNumber:    patentNumber(p),
			FilingDate:      p.FilingDate,
			PublicationDate: p.PublicationDate,
			Inventors:       strings.Join(p.Inventors, ", "),
			Assignee:        p.Assignee,
			Abstract:        p.Snippet,
			Link:            p.Link,
		})
	}
	return records, nil
}

// patentNumber prefers the explicit patent_number field, falling back to the
// number embedded in patent_id ("patent/JP2020123456A/ja").
func patentNumber(p serpPatent) string {
	if p.PatentNumber != "" {
		return p.PatentNumber
	}
	id := strings.TrimPrefix(p.PatentID, "patent/")
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	return id
}

// SerpAPI JSON structures.
type serpResponse struct {
	OrganicResults []serpPatent `json:"organic_results"`
	Error          string       `json:"error"`
}

type serpPatent struct {
	Title           string   `json:"title"`
	PatentNumber    string   `json:"patent_number"`
	PatentID        string   `json:"patent_id"`
	FilingDate      string   `json:"filing_date"`
	PublicationDate string   `json:"publication_date"`
	Inventors       []string `json:"inventors"`
	Assignee        string   `json:"assignee"`
	Snippet         string   `json:"snippet"`
	Link            string   `json:"link"`
}
