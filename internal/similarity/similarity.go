// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores candidate references against a document core
// and ranks them. The pairwise ratio is pluggable: a longest-matching-blocks
// sequence ratio and a token-sort variant of it are provided.
package similarity

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdiddy/plagia/pkg/types"
)

// Func returns a similarity ratio in [0, 1] for two strings.
type Func func(a, b string) float64

// NewSequenceRatio returns the matching-blocks ratio 2*M/T computed over
// runes. Either input being empty yields 0. The pair is evaluated in a
// canonical order so the result does not depend on argument order.
// autoJunk enables the matcher's popular-element heuristic for inputs of
// 200 runes or more.
func NewSequenceRatio(autoJunk bool) Func {
	return func(a, b string) float64 {
		if a == "" || b == "" {
			return 0
		}
		if b < a {
			a, b = b, a
		}
		m := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), autoJunk, nil)
		return clamp(m.Ratio())
	}
}

// NewTokenSortRatio normalizes both inputs to lowercase alphanumeric
// tokens, sorts the tokens, and applies the sequence ratio to the rejoined
// strings. Word order therefore does not affect the score.
func NewTokenSortRatio(autoJunk bool) Func {
	seq := NewSequenceRatio(autoJunk)
	return func(a, b string) float64 {
		return seq(sortedTokens(a), sortedTokens(b))
	}
}

// ByName returns the Func for a configured algorithm.
func ByName(alg types.SimilarityAlgorithm, autoJunk bool) (Func, error) {
	switch alg {
	case "", types.AlgorithmSequence:
		return NewSequenceRatio(autoJunk), nil
	case types.AlgorithmTokenSort:
		return NewTokenSortRatio(autoJunk), nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm %q: use sequence or token_sort", alg)
	}
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func sortedTokens(s string) string {
	toks := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
