// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// NoReferences is printed when the reference list is empty.
const NoReferences = "No references found."

const titleWidth = 60

// FormatTable writes a plain-text report to w.
func (r *Report) FormatTable(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, "Requester")
	fmt.Fprintf(&b, "  Name:  %s\n", r.Name)
	fmt.Fprintf(&b, "  Email: %s\n", r.Email)
	if r.Filename != "" {
		fmt.Fprintf(&b, "  File:  %s\n", r.Filename)
	}
	fmt.Fprintf(&b, "  Date:  %s\n", r.When())
	fmt.Fprintf(&b, "  Code:  %s\n", r.Code)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Top references (%d of %d candidates)\n", len(r.References), r.Summary.Candidates)
	if r.Empty() {
		fmt.Fprintln(&b, NoReferences)
	} else {
		fmt.Fprintf(&b, "%-4s  %-*s  %8s  %-4s  %s\n", "Rank", titleWidth, "Title", "Similar", "Year", "Link")
		fmt.Fprintln(&b, strings.Repeat("-", 110))
		for _, e := range r.References {
			fmt.Fprintf(&b, "%-4d  %-*s  %7.2f%%  %-4s  %s\n",
				e.Rank, titleWidth, clip(e.Title, titleWidth), e.Percent, e.Year, e.Link)
		}
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Average similarity: %.2f%%\n", r.Summary.ListedPct)
		fmt.Fprintf(&b, "Highest similarity: %.2f%%\n", r.Summary.MaxPct)
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s", warn)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(&b)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatJSON writes the report as indented JSON.
func (r *Report) FormatJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n-3]) + "..."
}
