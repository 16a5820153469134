// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plagia/internal/pipeline"
	"github.com/pdiddy/plagia/pkg/types"
)

func scored(rank int, title string, sim float64, doi, url, year string) types.ScoredReference {
	return types.ScoredReference{
		CandidateReference: types.CandidateReference{Title: title, DOI: doi, URL: url, Year: year, Source: "crossref"},
		Similarity:         sim,
		Rank:               rank,
	}
}

func sampleResult() *pipeline.Result {
	refs := []types.ScoredReference{
		scored(1, "Deep Learning for Text", 0.82, "10.1000/a", "https://example.org/a", "2020"),
		scored(2, "Neural  Ranking\nModels", 0.40, "", "https://example.org/b", ""),
		scored(3, "Corpus Overlap", 0.30, "https://doi.org/10.1000/c", "", "2018"),
		scored(4, "Sentence Encoders", 0.20, "", "", "2019"),
		scored(5, "Lexical Features", 0.10, "10.1000/e", "", "2017"),
		scored(6, "Benchmark Accuracy", 0.08, "10.1000/f", "", "2016"),
	}
	return &pipeline.Result{
		Name:       "Ana Souza",
		Email:      "ana@example.org",
		Filename:   "paper.pdf",
		Timestamp:  time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC),
		Code:       "2CF24DBA5F",
		Source:     "crossref",
		Strategy:   "longest",
		References: refs,
		Stats:      types.Stats{Count: 6, Total: 9, Max: 0.82, Mean: 0.3167, AboveHigh: 1},
		Registered: true,
		Remaining:  3,
	}
}

func utc() Options { return Options{Location: time.UTC} }

// --- Build ---

func TestBuildListsTopFive(t *testing.T) {
	r := Build(sampleResult(), utc())

	require.Len(t, r.References, 5)
	assert.Equal(t, 1, r.References[0].Rank)
	assert.Equal(t, "Neural Ranking Models", r.References[1].Title)
	assert.InDelta(t, 82.0, r.References[0].Percent, 1e-9)
	assert.Equal(t, 9, r.Summary.Candidates)
	assert.Equal(t, 6, r.Summary.Ranked)
	assert.Equal(t, 5, r.Summary.Listed)
	assert.InDelta(t, 82.0, r.Summary.MaxPct, 1e-9)
	// Listed mean covers the five shown: (82+40+30+20+10)/5.
	assert.InDelta(t, 36.4, r.Summary.ListedPct, 1e-9)
	assert.Equal(t, "01/03/2026 14:05:09", r.When())
}

func TestBuildTopN(t *testing.T) {
	r := Build(sampleResult(), Options{TopN: 2})
	assert.Len(t, r.References, 2)

	r = Build(sampleResult(), Options{TopN: 50})
	assert.Len(t, r.References, 6)
}

func TestBuildEmpty(t *testing.T) {
	res := &pipeline.Result{Name: "A", Email: "a@b.c", Code: "0123456789", Empty: true}
	r := Build(res, utc())

	assert.True(t, r.Empty())
	assert.NotNil(t, r.References)
	assert.Equal(t, Summary{}, r.Summary)
}

func TestLinkPrefersDOI(t *testing.T) {
	tests := []struct {
		doi, url, want string
	}{
		{"10.1000/a", "https://example.org/a", "https://doi.org/10.1000/a"},
		{"", "https://example.org/b", "https://example.org/b"},
		{"https://doi.org/10.1000/c", "", "https://doi.org/10.1000/c"},
		{"https://dx.doi.org/10.1000/d", "", "https://doi.org/10.1000/d"},
		{"doi:10.1000/e", "", "https://doi.org/10.1000/e"},
		{" ", " ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Link(tt.doi, tt.url), "Link(%q, %q)", tt.doi, tt.url)
	}
}

// --- table and JSON ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(sampleResult(), utc()).FormatTable(&buf))
	out := buf.String()

	assert.Contains(t, out, "Name:  Ana Souza")
	assert.Contains(t, out, "Code:  2CF24DBA5F")
	assert.Contains(t, out, "Date:  01/03/2026 14:05:09")
	assert.Contains(t, out, "Top references (5 of 9 candidates)")
	assert.Contains(t, out, "82.00%")
	assert.Contains(t, out, "https://doi.org/10.1000/a")
	assert.Contains(t, out, "Average similarity: 36.40%")
	assert.NotContains(t, out, "Benchmark Accuracy")
	assert.NotContains(t, out, NoReferences)
}

func TestFormatTableEmptyWithWarning(t *testing.T) {
	res := &pipeline.Result{Name: "A", Email: "a@b.c", Code: "0123456789",
		Warnings: []string{"verification code 0123456789 could not be registered"}}

	var buf bytes.Buffer
	require.NoError(t, Build(res, utc()).FormatTable(&buf))
	out := buf.String()

	assert.Contains(t, out, NoReferences)
	assert.NotContains(t, out, "Average similarity")
	assert.Contains(t, out, "warning: verification code 0123456789")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(sampleResult(), utc()).FormatJSON(&buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2CF24DBA5F", got["code"])
	refs := got["references"].([]any)
	assert.Len(t, refs, 5)
	assert.Equal(t, "https://doi.org/10.1000/a", refs[0].(map[string]any)["link"])
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", clip(strings.Repeat("é", 20), 10))
}

// --- CSL ---

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(sampleResult(), utc()).FormatCSL(&buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 5)

	assert.Equal(t, "10.1000/a", items[0].ID)
	assert.Equal(t, "article-journal", items[0].Type)
	assert.Equal(t, [][]int{{2020}}, items[0].Issued.DateParts)
	assert.Equal(t, "similarity 82.00%", items[0].Note)

	assert.Equal(t, "ref2", items[1].ID)
	assert.Nil(t, items[1].Issued)
	assert.Equal(t, "https://example.org/b", items[1].URL)
}

// --- HTML ---

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(sampleResult(), utc()).RenderHTML(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Similarity report 2CF24DBA5F</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "Deep Learning for Text")
	assert.Contains(t, out, `href="https://doi.org/10.1000/a"`)
	assert.Contains(t, out, "82.00%")
}

func TestRenderHTMLEscapesTitles(t *testing.T) {
	res := sampleResult()
	res.References = []types.ScoredReference{
		scored(1, `<script>alert("x")</script> | *bold* [x](javascript:alert(1))`, 0.5, "", "javascript:alert(1)", ""),
	}
	res.Name = "<b>Ana</b>"

	var buf bytes.Buffer
	require.NoError(t, Build(res, utc()).RenderHTML(&buf))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>Ana</b>")
	assert.NotContains(t, out, `href="javascript:`)
	assert.NotContains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(&pipeline.Result{Code: "0123456789"}, utc()).RenderHTML(&buf))
	assert.Contains(t, buf.String(), NoReferences)
	assert.NotContains(t, buf.String(), "<table>")
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain words", "plain words"},
		{"a|b", `a\|b`},
		{"*x*", `\*x\*`},
		{"line\nbreak", "line break"},
		{"Résumé", "Résumé"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeMarkdown(tt.in))
	}
}

// --- Save / Load ---

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "r.yaml")
	orig := Build(sampleResult(), utc())
	require.NoError(t, orig.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Code, got.Code)
	assert.Equal(t, orig.References, got.References)
	assert.Equal(t, orig.Summary, got.Summary)
	assert.True(t, orig.Timestamp.Equal(got.Timestamp))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
