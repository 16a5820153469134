// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the plagia pipeline:
// candidate and scored references, verification records, summary
// statistics, and configuration.
package types

// CandidateReference is a bibliographic record returned by a search source
// as a possible similarity match.
type CandidateReference struct {
	// Title is the work title. It is the display key within a result set.
	Title string `json:"title" yaml:"title"`

	// Abstract may be empty when the source does not expose one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// URL is the landing page reported by the source.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI is the bare DOI (e.g. "10.1000/xyz"), if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Year is the publication year as reported by the source.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Source identifies which backend produced this record.
	Source string `json:"source" yaml:"source"`
}

// ScoredReference is a candidate with its similarity to the submitted core text.
type ScoredReference struct {
	CandidateReference `yaml:",inline"`

	// Similarity is a ratio in [0, 1].
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Rank is the 1-based position after sorting.
	Rank int `json:"rank" yaml:"rank"`
}

// VerificationRecord binds a verification code to its requester. The JSON
// names are the registration store's wire contract.
type VerificationRecord struct {
	Name  string `json:"nome" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Code  string `json:"codigo" yaml:"code"`
	Date  string `json:"data" yaml:"date"`
}

// Stats summarizes a ranked reference list. Every field is derived from
// the list; Mean is zero when Count is zero.
type Stats struct {
	// Count is the number of references retained after filtering.
	Count int `json:"count" yaml:"count"`

	// Total is the number of candidates before filtering.
	Total int `json:"total" yaml:"total"`

	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`

	// AboveHigh counts references at or above the high-similarity threshold.
	AboveHigh int `json:"above_high" yaml:"above_high"`
}
