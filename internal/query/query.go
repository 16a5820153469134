// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query derives bibliographic search strings from a document core.
// By default three strategies are tried in a fixed order: the longest words
// of the opening, adjacent word pairs of the opening, and the most frequent
// words of the whole core. The leading strategy takes the first words
// verbatim and is used by the legacy preset.
package query

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/plagia/pkg/types"
)

// Strategy selects how terms are chosen.
type Strategy int

const (
	Longest Strategy = iota
	Bigrams
	Frequent
	Leading
)

func (s Strategy) String() string {
	switch s {
	case Longest:
		return "longest"
	case Bigrams:
		return "bigrams"
	case Frequent:
		return "frequent"
	case Leading:
		return "leading"
	default:
		return "unknown"
	}
}

// Strategies returns the default strategies in retry order.
func Strategies() []Strategy {
	return []Strategy{Longest, Bigrams, Frequent}
}

// ParseStrategies resolves strategy names. An empty list yields the
// default order.
func ParseStrategies(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return Strategies(), nil
	}
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown query strategy %q: use longest, bigrams, frequent, or leading", name)
		}
		out = append(out, s)
	}
	return out, nil
}

var byName = map[string]Strategy{
	"longest":  Longest,
	"bigrams":  Bigrams,
	"frequent": Frequent,
	"leading":  Leading,
}

// Builder turns core text into query strings.
type Builder struct {
	cfg    types.QueryConfig
	order  []Strategy
	stop   map[string]bool
	domain map[string]bool
}

// NewBuilder creates a builder, substituting defaults for unset limits.
// Unknown strategy names fall back to the default order; callers that need
// to reject them check ParseStrategies first.
func NewBuilder(cfg types.QueryConfig) *Builder {
	def := types.DefaultConfig().Query
	setDefault(&cfg.PrefixChars, def.PrefixChars)
	setDefault(&cfg.LongestMinLength, def.LongestMinLength)
	setDefault(&cfg.LongestMax, def.LongestMax)
	setDefault(&cfg.BigramMinLength, def.BigramMinLength)
	setDefault(&cfg.BigramMax, def.BigramMax)
	setDefault(&cfg.FrequentMinLength, def.FrequentMinLength)
	setDefault(&cfg.FrequentMax, def.FrequentMax)
	setDefault(&cfg.LeadingMax, def.LeadingMax)
	if cfg.Joiner == "" {
		cfg.Joiner = def.Joiner
	}
	order, err := ParseStrategies(cfg.Strategies)
	if err != nil {
		order = Strategies()
	}

	b := &Builder{cfg: cfg, order: order, stop: wordSet(generalStopwords), domain: wordSet(domainStopwords)}
	for _, w := range cfg.ExtraStopwords {
		b.stop[strings.ToLower(w)] = true
	}
	if len(cfg.DomainStopwords) > 0 {
		b.domain = wordSet(cfg.DomainStopwords)
	}
	return b
}

// Strategies returns the configured retry order.
func (b *Builder) Strategies() []Strategy {
	return append([]Strategy(nil), b.order...)
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Build returns the query for strategy s, or "" when no terms qualify.
func (b *Builder) Build(core string, s Strategy) string {
	var terms []string
	switch s {
	case Longest:
		terms = b.longest(core)
	case Bigrams:
		terms = b.bigrams(core)
	case Frequent:
		terms = b.frequent(core)
	case Leading:
		terms = capTerms(strings.Fields(core), b.cfg.LeadingMax)
	}
	return strings.Join(terms, b.cfg.Joiner)
}

// longest returns unique tokens of at least LongestMinLength runes from
// the opening, longest first and in order of appearance among equals.
func (b *Builder) longest(core string) []string {
	var cands []string
	seen := make(map[string]bool)
	for _, tok := range Tokenize(prefix(core, b.cfg.PrefixChars)) {
		if seen[tok] || b.stop[tok] || utf8.RuneCountInString(tok) < b.cfg.LongestMinLength {
			continue
		}
		seen[tok] = true
		cands = append(cands, tok)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return utf8.RuneCountInString(cands[i]) > utf8.RuneCountInString(cands[j])
	})
	return capTerms(cands, b.cfg.LongestMax)
}

// bigrams returns unique adjacent pairs from the opening whose members are
// both content words of at least BigramMinLength runes.
func (b *Builder) bigrams(core string) []string {
	toks := Tokenize(prefix(core, b.cfg.PrefixChars))
	var out []string
	seen := make(map[string]bool)
	for i := 0; i+1 < len(toks) && len(out) < b.cfg.BigramMax; i++ {
		a, c := toks[i], toks[i+1]
		if !b.content(a, b.cfg.BigramMinLength) || !b.content(c, b.cfg.BigramMinLength) {
			continue
		}
		pair := a + " " + c
		if seen[pair] {
			continue
		}
		seen[pair] = true
		out = append(out, pair)
	}
	return out
}

// frequent returns the tokens of at least FrequentMinLength runes that
// occur most often in the whole core, ties broken by first appearance.
func (b *Builder) frequent(core string) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range Tokenize(core) {
		if !b.content(tok, b.cfg.FrequentMinLength) || b.domain[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return capTerms(order, b.cfg.FrequentMax)
}

func (b *Builder) content(tok string, minLen int) bool {
	return !b.stop[tok] && utf8.RuneCountInString(tok) >= minLen
}

// Tokenize lowercases s and splits it into runs of letters and digits.
// Accents are preserved.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func capTerms(terms []string, max int) []string {
	if max > 0 && len(terms) > max {
		return terms[:max]
	}
	return terms
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = true
	}
	return m
}
