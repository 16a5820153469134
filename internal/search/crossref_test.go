// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleCrossRefJSON = `{
  "status": "ok",
  "message": {
    "total-results": 2,
    "items": [
      {
        "DOI": "10.1000/xyz123",
        "title": ["Deep Learning for Text Similarity"],
        "abstract": "<jats:p>We study &amp; compare <jats:italic>neural</jats:italic> models.</jats:p>",
        "URL": "https://doi.org/10.1000/xyz123",
        "published-print": {"date-parts": [[2021, 5]]},
        "issued": {"date-parts": [[2020]]}
      },
      {
        "DOI": "10.1000/abc",
        "title": [],
        "URL": "https://doi.org/10.1000/abc",
        "issued": {"date-parts": [[2019, 1, 2]]}
      }
    ]
  }
}`

func crossRefTestServer(t *testing.T, status int, body string, capture **http.Request) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := crossRefAPIBase
	crossRefAPIBase = ts.URL
	t.Cleanup(func() { crossRefAPIBase = old })
}

func TestCrossRefSearchRequestParams(t *testing.T) {
	var req *http.Request
	crossRefTestServer(t, http.StatusOK, `{"status":"ok","message":{"items":[]}}`, &req)

	cfg := testCfg()
	cfg.MaxResults = 12
	b := &CrossRefBackend{Client: http.DefaultClient, Mailto: "ops@example.org"}
	if _, err := b.Search(context.Background(), "neural similarity", cfg); err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := req.URL.Query()
	if got := q.Get("query.bibliographic"); got != "neural similarity" {
		t.Errorf("query.bibliographic = %q", got)
	}
	if got := q.Get("rows"); got != "12" {
		t.Errorf("rows = %q, want 12", got)
	}
	if got := q.Get("mailto"); got != "ops@example.org" {
		t.Errorf("mailto = %q", got)
	}
	if got := q.Get("select"); got != crossRefSelect {
		t.Errorf("select = %q", got)
	}
	if got := req.Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestCrossRefSearchParsesItems(t *testing.T) {
	crossRefTestServer(t, http.StatusOK, sampleCrossRefJSON, nil)

	b := &CrossRefBackend{Client: http.DefaultClient}
	got, err := b.Search(context.Background(), "deep learning", testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.Title != "Deep Learning for Text Similarity" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Abstract != "We study & compare neural models." {
		t.Errorf("Abstract = %q", first.Abstract)
	}
	if first.DOI != "10.1000/xyz123" || first.URL != "https://doi.org/10.1000/xyz123" {
		t.Errorf("DOI/URL = %q %q", first.DOI, first.URL)
	}
	if first.Year != "2021" {
		t.Errorf("Year = %q, want published-print year 2021", first.Year)
	}
	if first.Source != "crossref" {
		t.Errorf("Source = %q", first.Source)
	}

	second := got[1]
	if second.Title != "" {
		t.Errorf("Title = %q, want empty", second.Title)
	}
	if second.Year != "2019" {
		t.Errorf("Year = %q, want issued year 2019", second.Year)
	}
}

func TestCrossRefSearchHTTPError(t *testing.T) {
	crossRefTestServer(t, http.StatusBadRequest, `{"status":"failed"}`, nil)

	b := &CrossRefBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), "x y z", testCfg())
	if err == nil {
		t.Fatal("expected error")
	}
	if Unavailable(err) {
		t.Errorf("400 should not mark the source unavailable")
	}
}

func TestCrossRefSearchServerErrorIsUnavailable(t *testing.T) {
	crossRefTestServer(t, http.StatusServiceUnavailable, ``, nil)

	b := &CrossRefBackend{Client: http.DefaultClient}
	_, err := b.Search(context.Background(), "x y z", testCfg())
	if !Unavailable(err) {
		t.Errorf("Unavailable(%v) = false, want true", err)
	}
}

func TestCrossRefSearchMalformedJSON(t *testing.T) {
	crossRefTestServer(t, http.StatusOK, `{"message":`, nil)

	b := &CrossRefBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "x", testCfg()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCrossRefEmptyQuery(t *testing.T) {
	b := &CrossRefBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "  ", testCfg()); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestStripJATS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<jats:title>Abstract</jats:title><jats:p>Body&lt;1&gt;</jats:p>", "Abstract Body<1>"},
		{"<p>multi\n  line</p>", "multi line"},
	}
	for _, tt := range tests {
		if got := stripJATS(tt.in); got != tt.want {
			t.Errorf("stripJATS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
