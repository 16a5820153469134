// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagia/pkg/types"
)

func defaultBuilder() *Builder {
	return NewBuilder(types.DefaultConfig().Query)
}

func TestStrategiesOrder(t *testing.T) {
	assert.Equal(t, []Strategy{Longest, Bigrams, Frequent}, Strategies())
	assert.Equal(t, "longest", Longest.String())
	assert.Equal(t, "bigrams", Bigrams.String())
	assert.Equal(t, "frequent", Frequent.String())
	assert.Equal(t, "leading", Leading.String())
	assert.Equal(t, "unknown", Strategy(9).String())
}

func TestEmptyCoreYieldsEmptyQuery(t *testing.T) {
	b := defaultBuilder()
	for _, s := range Strategies() {
		assert.Equal(t, "", b.Build("", s), s.String())
		assert.Equal(t, "", b.Build("   ", s), s.String())
	}
}

func TestLongest(t *testing.T) {
	core := "Graph neural networks improve molecular property prediction across benchmarks; networks generalize."
	got := defaultBuilder().Build(core, Longest)
	// Unique, length >= 6, longest first, ties in order of appearance.
	assert.Equal(t, "prediction benchmarks generalize molecular networks property improve neural across", got)
}

func TestLongestCapAndPrefix(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.LongestMax = 2
	b := NewBuilder(cfg)
	assert.Equal(t, "extraordinarily remarkable", b.Build("remarkable extraordinarily capable system", Longest))

	cfg = types.DefaultConfig().Query
	cfg.PrefixChars = 12
	b = NewBuilder(cfg)
	assert.Equal(t, "opening", b.Build("opening text thereafter ignoredwords", Longest))
}

func TestLongestSkipsStopwords(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.ExtraStopwords = []string{"Learning"}
	b := NewBuilder(cfg)
	assert.Equal(t, "representation", b.Build("through learning representation", Longest))
}

func TestBigrams(t *testing.T) {
	core := "Deep learning models for text similarity in deep learning systems"
	got := defaultBuilder().Build(core, Bigrams)
	// "for", "in" break pairs; the repeated pair appears once.
	assert.Equal(t, "deep learning learning models text similarity learning systems", got)
}

func TestBigramsCap(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.BigramMax = 2
	b := NewBuilder(cfg)
	got := b.Build("alpha beta gamma delta epsilon", Bigrams)
	assert.Equal(t, "alpha beta beta gamma", got)
}

func TestFrequent(t *testing.T) {
	core := strings.Join([]string{
		"corpus retrieval ranking corpus",
		"this study uses corpus retrieval",
		"ranking paper retrieval corpus",
	}, " ")
	got := defaultBuilder().Build(core, Frequent)
	// corpus 4, retrieval 3, ranking 2; "study" and "paper" are domain
	// stopwords; "this" and "uses" are too short.
	assert.Equal(t, "corpus retrieval ranking", got)
}

func TestFrequentScansWholeCore(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.PrefixChars = 10
	b := NewBuilder(cfg)
	core := "beginning " + strings.Repeat("filler ", 50) + "tailword tailword tailword"
	assert.Equal(t, "filler tailword beginning", b.Build(core, Frequent))
}

func TestFrequentCustomDomainStopwords(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.DomainStopwords = []string{"corpus"}
	b := NewBuilder(cfg)
	assert.Equal(t, "retrieval study", b.Build("corpus corpus retrieval retrieval study", Frequent))
}

func TestJoiner(t *testing.T) {
	cfg := types.DefaultConfig().Query
	cfg.Joiner = "+"
	b := NewBuilder(cfg)
	assert.Equal(t, "similarity+semantic", b.Build("semantic similarity", Longest))
}

func TestLeadingKeepsFirstWordsVerbatim(t *testing.T) {
	legacy, err := types.PresetConfig(types.PresetLegacy)
	require.NoError(t, err)
	b := NewBuilder(legacy.Query)

	core := "RESUMO: Este trabalho analisa (redes) neurais com dados reais de 2024 e mais"
	assert.Equal(t, "RESUMO: Este trabalho analisa (redes) neurais com dados reais de", b.Build(core, Leading))
	assert.Equal(t, "curto texto", b.Build("  curto   texto ", Leading))
	assert.Equal(t, []Strategy{Leading}, b.Strategies())
}

func TestParseStrategies(t *testing.T) {
	got, err := ParseStrategies(nil)
	require.NoError(t, err)
	assert.Equal(t, Strategies(), got)

	got, err = ParseStrategies([]string{"Frequent", " leading "})
	require.NoError(t, err)
	assert.Equal(t, []Strategy{Frequent, Leading}, got)

	_, err = ParseStrategies([]string{"longest", "random"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "random")

	cfg := types.DefaultConfig().Query
	cfg.Strategies = []string{"random"}
	assert.Equal(t, Strategies(), NewBuilder(cfg).Strategies())
}

func TestTokenizePreservesAccents(t *testing.T) {
	assert.Equal(t, []string{"análise", "de", "redes", "2024", "ação"}, Tokenize("Análise de redes (2024): AÇÃO!"))
}

func TestPrefixCountsRunes(t *testing.T) {
	assert.Equal(t, "açã", prefix("ação", 3))
	assert.Equal(t, "ação", prefix("ação", 10))
	assert.Equal(t, "ação", prefix("ação", 0))
}
