// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/plagia/internal/httputil"
	"github.com/pdiddy/plagia/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivAbsBase = "https://arxiv.org/abs/"

// ArxivBackend queries the arXiv Atom API. arXiv records carry no DOI
// for most preprints, so references link to the abstract page.
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return string(types.SourceArxiv) }

// Search runs an all-fields query and maps the feed entries.
func (b *ArxivBackend) Search(ctx context.Context, q string, cfg types.RetrievalConfig) ([]types.CandidateReference, error) {
	terms := arxivTerms(q)
	if terms == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {"all:" + terms},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults(cfg))},
		"sortBy":       {"relevance"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setUserAgent(req, cfg)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Source: "arXiv", Code: resp.StatusCode}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	results := make([]types.CandidateReference, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		r := types.CandidateReference{
			Title:    strings.Join(strings.Fields(entry.Title), " "),
			Abstract: strings.Join(strings.Fields(entry.Summary), " "),
			URL:      arxivAbsBase + id,
			DOI:      strings.TrimSpace(entry.DOI),
			Source:   b.Name(),
		}
		if len(entry.Published) >= 4 {
			if _, err := strconv.Atoi(entry.Published[:4]); err == nil {
				r.Year = entry.Published[:4]
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// arxivTerms flattens q to space-separated words. Quotes, colons and
// parentheses would be read as query syntax and are dropped.
func arxivTerms(q string) string {
	words := strings.Fields(strings.Map(func(r rune) rune {
		switch r {
		case '"', '(', ')', ':':
			return ' '
		}
		return r
	}, q))
	return strings.Join(words, " ")
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	DOI       string `xml:"http://arxiv.org/schemas/atom doi"`
}

// extractArxivID pulls the bare identifier from an entry id URL,
// dropping the version suffix: "http://arxiv.org/abs/2301.07041v2"
// becomes "2301.07041".
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])
	if v := strings.LastIndex(id, "v"); v > 0 {
		if _, err := strconv.Atoi(id[v+1:]); err == nil {
			id = id[:v]
		}
	}
	return id
}
