// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report turns a pipeline result into the document handed to the
// requester: who asked, when, the verification code, the top ranked
// references with their similarity and a link, and summary statistics.
// Rendering is pure; nothing here touches the network.
package report

import (
	"strings"
	"time"

	"github.com/pdiddy/plagia/internal/pipeline"
)

// DefaultTopN is the number of references listed when Options.TopN is unset.
const DefaultTopN = 5

// TimeLayout formats the report timestamp.
const TimeLayout = "02/01/2006 15:04:05"

const doiBase = "https://doi.org/"

// Options controls report content.
type Options struct {
	TopN     int
	Location *time.Location
}

// Entry is one listed reference.
type Entry struct {
	Rank       int     `json:"rank" yaml:"rank"`
	Title      string  `json:"title" yaml:"title"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Percent    float64 `json:"percent" yaml:"percent"`
	Year       string  `json:"year,omitempty" yaml:"year,omitempty"`
	DOI        string  `json:"doi,omitempty" yaml:"doi,omitempty"`
	Link       string  `json:"link,omitempty" yaml:"link,omitempty"`
	Source     string  `json:"source,omitempty" yaml:"source,omitempty"`
	Abstract   string  `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// Summary holds the statistics printed under the reference list.
// Percentages are in the 0..100 range.
type Summary struct {
	Candidates int     `json:"candidates" yaml:"candidates"`
	Ranked     int     `json:"ranked" yaml:"ranked"`
	Listed     int     `json:"listed" yaml:"listed"`
	MaxPct     float64 `json:"max_pct" yaml:"max_pct"`
	MeanPct    float64 `json:"mean_pct" yaml:"mean_pct"`
	ListedPct  float64 `json:"listed_mean_pct" yaml:"listed_mean_pct"`
	AboveHigh  int     `json:"above_high" yaml:"above_high"`
}

// Report is the rendered-ready view of one analysis.
type Report struct {
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email" yaml:"email"`
	Filename   string    `json:"filename,omitempty" yaml:"filename,omitempty"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Code       string    `json:"code" yaml:"code"`
	Registered bool      `json:"registered" yaml:"registered"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	Strategy   string    `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	References []Entry   `json:"references" yaml:"references"`
	Summary    Summary   `json:"summary" yaml:"summary"`
	Warnings   []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Remaining  int       `json:"remaining" yaml:"remaining"`

	loc *time.Location
}

// Build assembles a report from a pipeline result.
func Build(res *pipeline.Result, opts Options) *Report {
	n := opts.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	r := &Report{
		Name:       res.Name,
		Email:      res.Email,
		Filename:   res.Filename,
		Timestamp:  res.Timestamp,
		Code:       res.Code,
		Registered: res.Registered,
		Source:     res.Source,
		Strategy:   res.Strategy,
		References: []Entry{},
		Warnings:   res.Warnings,
		Remaining:  res.Remaining,
		loc:        loc,
	}

	refs := res.References
	if len(refs) > n {
		refs = refs[:n]
	}
	var listed float64
	for _, ref := range refs {
		r.References = append(r.References, Entry{
			Rank:       ref.Rank,
			Title:      displayTitle(ref.Title),
			Similarity: ref.Similarity,
			Percent:    percent(ref.Similarity),
			Year:       ref.Year,
			DOI:        ref.DOI,
			Link:       Link(ref.DOI, ref.URL),
			Source:     ref.Source,
			Abstract:   ref.Abstract,
		})
		listed += ref.Similarity
	}

	r.Summary = Summary{
		Candidates: res.Stats.Total,
		Ranked:     res.Stats.Count,
		Listed:     len(r.References),
		MaxPct:     percent(res.Stats.Max),
		MeanPct:    percent(res.Stats.Mean),
		AboveHigh:  res.Stats.AboveHigh,
	}
	if len(refs) > 0 {
		r.Summary.ListedPct = percent(listed / float64(len(refs)))
	}
	return r
}

// Link returns the resolver URL for doi, or url when doi is empty.
func Link(doi, url string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return strings.TrimSpace(url)
	}
	for _, p := range []string{doiBase, "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		if len(doi) >= len(p) && strings.EqualFold(doi[:len(p)], p) {
			doi = doi[len(p):]
			break
		}
	}
	return doiBase + doi
}

// When formats the report timestamp in the report's location.
func (r *Report) When() string {
	loc := r.loc
	if loc == nil {
		loc = time.Local
	}
	return r.Timestamp.In(loc).Format(TimeLayout)
}

// Empty reports whether no reference is listed.
func (r *Report) Empty() bool { return len(r.References) == 0 }

func percent(sim float64) float64 { return sim * 100 }

func displayTitle(t string) string {
	t = strings.Join(strings.Fields(t), " ")
	if t == "" {
		return "Untitled"
	}
	return t
}
