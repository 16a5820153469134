// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"sort"
	"strings"

	"github.com/pdiddy/plagia/pkg/types"
)

// Scorer ranks candidates by similarity to a core text.
type Scorer struct {
	Func           Func
	MaxCoreChars   int
	MinSimilarity  float64
	HighSimilarity float64
}

// Ranked is the filtered, sorted result of Score. Total counts every
// candidate scored, including those filtered out.
type Ranked struct {
	References []types.ScoredReference `json:"references"`
	Total      int                     `json:"total"`
}

// NewScorer builds a scorer from configuration.
func NewScorer(cfg types.ScoringConfig) (*Scorer, error) {
	fn, err := ByName(cfg.Algorithm, cfg.AutoJunk)
	if err != nil {
		return nil, err
	}
	return &Scorer{
		Func:           fn,
		MaxCoreChars:   cfg.MaxCoreChars,
		MinSimilarity:  cfg.MinSimilarity,
		HighSimilarity: cfg.HighSimilarity,
	}, nil
}

// Score compares the lowercased, truncated core with each candidate's
// lowercased title and abstract, drops candidates below MinSimilarity,
// and sorts the rest by descending similarity. Equal scores keep
// retrieval order.
func (s *Scorer) Score(core string, candidates []types.CandidateReference) Ranked {
	text := strings.ToLower(truncateRunes(core, s.MaxCoreChars))

	refs := make([]types.ScoredReference, 0, len(candidates))
	for _, c := range candidates {
		sim := s.Func(text, ComparisonText(c))
		if sim < s.MinSimilarity {
			continue
		}
		refs = append(refs, types.ScoredReference{CandidateReference: c, Similarity: sim})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Similarity > refs[j].Similarity
	})
	for i := range refs {
		refs[i].Rank = i + 1
	}
	return Ranked{References: refs, Total: len(candidates)}
}

// Stats summarizes the ranked list using the scorer's high threshold.
func (s *Scorer) Stats(r Ranked) types.Stats {
	return ComputeStats(r.References, r.Total, s.HighSimilarity)
}

// ComparisonText is the lowercased "title abstract" string a candidate is
// compared by. A candidate with neither yields "".
func ComparisonText(c types.CandidateReference) string {
	return strings.ToLower(strings.TrimSpace(c.Title + " " + c.Abstract))
}

// ComputeStats derives summary statistics from a ranked list. It never
// divides by zero: an empty list has zero mean and max.
func ComputeStats(refs []types.ScoredReference, total int, high float64) types.Stats {
	st := types.Stats{Count: len(refs), Total: total}
	if len(refs) == 0 {
		return st
	}
	var sum float64
	for _, r := range refs {
		sum += r.Similarity
		if r.Similarity > st.Max {
			st.Max = r.Similarity
		}
		if high > 0 && r.Similarity >= high {
			st.AboveHigh++
		}
	}
	st.Mean = sum / float64(len(refs))
	return st
}

func truncateRunes(s string, n int) string {
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
