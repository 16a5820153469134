// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/plagia/internal/httputil"
	"github.com/pdiddy/plagia/pkg/types"
)

// crossRefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossRefAPIBase = "https://api.crossref.org/works"

const crossRefSelect = "DOI,title,abstract,URL,published-print,issued"

var jatsTag = regexp.MustCompile(`<[^>]*>`)

// CrossRefBackend queries the CrossRef REST API.
type CrossRefBackend struct {
	Client *http.Client
	// Mailto routes requests to CrossRef's polite pool.
	Mailto string
}

// Name returns the backend identifier.
func (b *CrossRefBackend) Name() string { return string(types.SourceCrossRef) }

// Search runs a bibliographic query and maps the returned items.
func (b *CrossRefBackend) Search(ctx context.Context, q string, cfg types.RetrievalConfig) ([]types.CandidateReference, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("empty CrossRef query")
	}

	params := url.Values{
		"query.bibliographic": {q},
		"rows":                {strconv.Itoa(maxResults(cfg))},
		"select":              {crossRefSelect},
	}
	if b.Mailto != "" {
		params.Set("mailto", b.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossRefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setUserAgent(req, cfg)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Source: "CrossRef", Code: resp.StatusCode}
	}

	var cr crossRefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	results := make([]types.CandidateReference, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		r := types.CandidateReference{
			Abstract: stripJATS(item.Abstract),
			URL:      item.URL,
			DOI:      item.DOI,
			Source:   b.Name(),
		}
		if len(item.Title) > 0 {
			r.Title = item.Title[0]
		}
		if y := item.PublishedPrint.year(); y > 0 {
			r.Year = strconv.Itoa(y)
		} else if y := item.Issued.year(); y > 0 {
			r.Year = strconv.Itoa(y)
		}
		results = append(results, r)
	}
	return results, nil
}

// stripJATS removes JATS XML markup from a CrossRef abstract.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(jatsTag.ReplaceAllString(s, " "))
	return strings.Join(strings.Fields(s), " ")
}

// CrossRef API JSON structures.
type crossRefResponse struct {
	Status  string          `json:"status"`
	Message crossRefMessage `json:"message"`
}

type crossRefMessage struct {
	TotalResults int            `json:"total-results"`
	Items        []crossRefItem `json:"items"`
}

type crossRefItem struct {
	DOI            string       `json:"DOI"`
	Title          []string     `json:"title"`
	Abstract       string       `json:"abstract"`
	URL            string       `json:"URL"`
	PublishedPrint crossRefDate `json:"published-print"`
	Issued         crossRefDate `json:"issued"`
}

type crossRefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

func (d crossRefDate) year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] == nil {
		return 0
	}
	return *d.DateParts[0][0]
}
