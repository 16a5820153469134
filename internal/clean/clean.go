// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean isolates the core of an extracted document: repeated
// headers, page numbers and short DOI lines are dropped, the span between
// an abstract heading and a references heading is captured (or a bounded
// window when no heading exists), and the result is normalized to a single
// line. Cleaning is pure and deterministic.
package clean

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/plagia/pkg/types"
)

var (
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// keptPunct lists the non-alphanumeric characters that survive symbol
// stripping.
const keptPunct = ".,;:!?()'\"%-"

// Cleaner applies a compiled CleaningConfig.
type Cleaner struct {
	cfg      types.CleaningConfig
	abstract []*regexp.Regexp
	refs     []*regexp.Regexp
	page     *regexp.Regexp
}

// New compiles the marker and page patterns of cfg. Patterns are matched
// case-insensitively.
func New(cfg types.CleaningConfig) (*Cleaner, error) {
	c := &Cleaner{cfg: cfg}
	var err error
	if c.abstract, err = compileAll(cfg.AbstractMarkers); err != nil {
		return nil, fmt.Errorf("abstract markers: %w", err)
	}
	if c.refs, err = compileAll(cfg.ReferenceMarkers); err != nil {
		return nil, fmt.Errorf("reference markers: %w", err)
	}
	if cfg.PagePattern != "" {
		if c.page, err = regexp.Compile("(?i)" + cfg.PagePattern); err != nil {
			return nil, fmt.Errorf("page pattern: %w", err)
		}
	}
	return c, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Clean returns the normalized core of text, or "" when nothing survives.
func (c *Cleaner) Clean(text string) string {
	if c.cfg.NormalizeUnicode {
		text = norm.NFC.String(text)
	}
	lines := c.filter(splitLines(text))

	var captured []string
	found := false
	if c.cfg.KeepMarkerLines {
		captured, found = c.captureInline(lines)
	} else {
		captured, found = c.capture(lines)
	}
	if !found {
		captured = c.window(lines)
	}
	return c.normalize(strings.Join(captured, " "))
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// filter trims lines and drops empty, short, repeated, page-number and
// short DOI lines. Repeats are counted over trimmed lines unless
// CountUntrimmedRepeats is set.
func (c *Cleaner) filter(raw []string) []string {
	lines := make([]string, len(raw))
	counts := make(map[string]int, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
		if c.cfg.CountUntrimmedRepeats {
			counts[c.key(l)]++
		} else {
			counts[c.key(lines[i])]++
		}
	}

	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		n := utf8.RuneCountInString(l)
		switch {
		case l == "":
		case n < c.cfg.MinLineLength:
		case c.cfg.MaxRepeats > 0 && counts[c.key(l)] > c.cfg.MaxRepeats:
		case c.page != nil && c.page.MatchString(l):
		case n < c.cfg.DOILineMaxLength && strings.Contains(strings.ToLower(l), "doi"):
		default:
			kept = append(kept, l)
		}
	}
	return kept
}

func (c *Cleaner) key(line string) string {
	if c.cfg.CaseFold {
		return strings.ToLower(line)
	}
	return line
}

// capture collects lines from the first abstract heading up to, not
// including, the first references heading. Text following the abstract
// heading on its own line is kept. found is false when no abstract
// heading exists.
func (c *Cleaner) capture(lines []string) (out []string, found bool) {
	for _, l := range lines {
		if !found {
			end, ok := headingEnd(c.abstract, l)
			if !ok {
				continue
			}
			found = true
			if rest := strings.TrimLeft(l[end:], headingSeparators); rest != "" {
				out = append(out, rest)
			}
			continue
		}
		if _, ok := headingEnd(c.refs, l); ok {
			break
		}
		out = append(out, l)
	}
	return out, found
}

// captureInline is the marker handling of KeepMarkerLines: a marker
// anywhere in a line counts, the abstract line and the references line
// are both kept whole, and a references line seen first ends the scan.
func (c *Cleaner) captureInline(lines []string) (out []string, found bool) {
	for _, l := range lines {
		if !found && matchesAny(c.abstract, l) {
			found = true
		}
		if found {
			out = append(out, l)
		}
		if matchesAny(c.refs, l) {
			break
		}
	}
	return out, found
}

func matchesAny(markers []*regexp.Regexp, line string) bool {
	for _, re := range markers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// window skips front matter up to the first line of at least
// MinStartLineLength runes and returns up to FallbackWindowLines lines
// from there, stopping early at a references heading. A negative
// FallbackWindowLines disables the window.
func (c *Cleaner) window(lines []string) []string {
	if c.cfg.FallbackWindowLines < 0 {
		return nil
	}
	start := -1
	for i, l := range lines {
		if utf8.RuneCountInString(l) >= c.cfg.MinStartLineLength {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var out []string
	for _, l := range lines[start:] {
		if c.cfg.FallbackWindowLines > 0 && len(out) >= c.cfg.FallbackWindowLines {
			break
		}
		if _, ok := headingEnd(c.refs, l); ok {
			break
		}
		out = append(out, l)
	}
	return out
}

// headingSeparators may follow a marker on a heading line.
const headingSeparators = " \t:.-–—"

// headingEnd reports whether line is a heading for one of the markers and
// returns the end offset of the match. Leading numbering or punctuation is
// allowed; after the marker the line must end or continue with a
// separator, so prose such as "Abstract interpretation of programs" is
// not a heading.
func headingEnd(markers []*regexp.Regexp, line string) (int, bool) {
	for _, re := range markers {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if strings.IndexFunc(line[:loc[0]], unicode.IsLetter) >= 0 {
			continue
		}
		if !separated(line[loc[1]:]) {
			continue
		}
		return loc[1], true
	}
	return 0, false
}

// separated reports whether the text after a marker ends the line or opens
// with a separator. A hyphen counts only when it stands apart, so
// compounds like "Summary-level" stay prose.
func separated(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return true
	}
	r, size := utf8.DecodeRuneInString(rest)
	switch r {
	case ':', '.', '–', '—':
		return true
	case '-':
		next := rest[size:]
		return next == "" || next[0] == ' ' || next[0] == '\t'
	}
	return false
}

// normalize strips URLs and symbols per configuration, collapses
// whitespace when CollapseSpace is set and bounds the result to MaxChars
// at a word boundary.
func (c *Cleaner) normalize(s string) string {
	if c.cfg.StripURLs {
		s = urlPattern.ReplaceAllString(s, " ")
	}
	if c.cfg.StripSymbols {
		s = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(keptPunct, r) {
				return r
			}
			return ' '
		}, s)
	}
	if c.cfg.CollapseSpace {
		s = spacePattern.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(s)
	return truncateWords(s, c.cfg.MaxChars)
}

// truncateWords cuts s to at most max runes without splitting a word.
// A non-positive max leaves s unchanged.
func truncateWords(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	cut := string(r[:max])
	if r[max] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimSpace(cut)
}
