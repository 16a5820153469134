// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <published>2023-01-17T18:59:59Z</published>
    <title>Sentence Embeddings
      for Similarity Search</title>
    <summary>  We compare contrastive
      encoders on retrieval benchmarks.  </summary>
    <arxiv:doi>10.1000/arx.1</arxiv:doi>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <published>1999-01-04T00:00:00Z</published>
    <title>String Dualities</title>
    <summary>A survey.</summary>
  </entry>
  <entry>
    <id>not-an-arxiv-id</id>
    <title>Broken</title>
  </entry>
</feed>`

func arxivTestServer(t *testing.T, status int, body string, capture **http.Request) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() { arxivAPIBase = old })
}

func TestArxivSearchRequestParams(t *testing.T) {
	var req *http.Request
	arxivTestServer(t, http.StatusOK, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, &req)

	cfg := testCfg()
	cfg.MaxResults = 7
	b := &ArxivBackend{Client: http.DefaultClient}
	got, err := b.Search(context.Background(), `contrastive "sentence" (encoders)`, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}

	q := req.URL.Query()
	if got := q.Get("search_query"); got != "all:contrastive sentence encoders" {
		t.Errorf("search_query = %q", got)
	}
	if got := q.Get("max_results"); got != "7" {
		t.Errorf("max_results = %q, want 7", got)
	}
	if got := req.Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestArxivSearchParsesFeed(t *testing.T) {
	arxivTestServer(t, http.StatusOK, sampleArxivFeed, nil)

	b := &ArxivBackend{Client: http.DefaultClient}
	got, err := b.Search(context.Background(), "sentence embeddings", testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (entry without arXiv id skipped)", len(got))
	}

	first := got[0]
	if first.Title != "Sentence Embeddings for Similarity Search" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Abstract != "We compare contrastive encoders on retrieval benchmarks." {
		t.Errorf("Abstract = %q", first.Abstract)
	}
	if first.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.DOI != "10.1000/arx.1" {
		t.Errorf("DOI = %q", first.DOI)
	}
	if first.Year != "2023" || first.Source != "arxiv" {
		t.Errorf("Year/Source = %q %q", first.Year, first.Source)
	}

	if got[1].URL != "https://arxiv.org/abs/hep-th/9901001" || got[1].DOI != "" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestArxivSearchErrors(t *testing.T) {
	b := &ArxivBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), ` "()" `, testCfg()); err == nil {
		t.Error("expected error for a query with no terms")
	}

	arxivTestServer(t, http.StatusServiceUnavailable, ``, nil)
	_, err := b.Search(context.Background(), "x y", testCfg())
	if !Unavailable(err) {
		t.Errorf("Unavailable(%v) = false, want true", err)
	}
}

func TestArxivSearchMalformedFeed(t *testing.T) {
	arxivTestServer(t, http.StatusOK, `<feed><entry>`, nil)

	b := &ArxivBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), "x", testCfg()); err == nil {
		t.Error("expected parse error")
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v3", "hep-th/9901001"},
		{"http://example.org/other", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
