// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries bibliographic APIs for works similar to a
// document core. Sources are tried sequentially in priority order and,
// within each source, query strategies in a fixed order; the first
// non-empty result set wins.
package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/query"
	"github.com/pdiddy/plagia/pkg/types"
)

// Backend searches a single bibliographic API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.RetrievalConfig) ([]types.CandidateReference, error)
}

// StatusError reports a non-200 HTTP response from a source.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned HTTP %d", e.Source, e.Code)
}

// Unavailable reports whether err indicates the source itself is
// unreachable or overloaded (transport failure, timeout, 5xx or 429)
// rather than rejecting one particular query.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// NewBackends returns the configured sources in priority order.
func NewBackends(cfg types.RetrievalConfig, client *http.Client) ([]Backend, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	backends := make([]Backend, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		switch name {
		case types.SourceCrossRef:
			backends = append(backends, &CrossRefBackend{Client: client, Mailto: cfg.CrossRefMailto})
		case types.SourceSemanticScholar:
			backends = append(backends, &SemanticScholarBackend{Client: client, APIKey: cfg.SemanticScholarAPIKey})
		case types.SourceOpenAlex:
			backends = append(backends, &OpenAlexBackend{Client: client, Email: cfg.OpenAlexEmail})
		case types.SourceArxiv:
			backends = append(backends, &ArxivBackend{Client: client})
		default:
			return nil, fmt.Errorf("unknown source %q: use crossref, semantic_scholar, openalex, or arxiv", name)
		}
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no search sources configured")
	}
	return backends, nil
}

// Attempt records one source call made by the retriever.
type Attempt struct {
	Source   string        `json:"source"`
	Strategy string        `json:"strategy"`
	Query    string        `json:"query"`
	Results  int           `json:"results"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Outcome is the result of a cascading retrieval.
type Outcome struct {
	Candidates []types.CandidateReference
	Source     string
	Strategy   string
	Attempts   []Attempt
}

// Empty reports whether every source and strategy was exhausted without
// a candidate.
func (o Outcome) Empty() bool { return len(o.Candidates) == 0 }

// Retriever runs the source-by-strategy cascade.
type Retriever struct {
	Backends []Backend
	Queries  *query.Builder
	Config   types.RetrievalConfig
	Logger   *zap.Logger
}

// Retrieve tries each source in order and, for each, each query strategy
// in order. Every call gets its own timeout. Failed calls are logged and
// count as empty; when SkipSourceOnFailure is set an unavailable source's
// remaining strategies are skipped. The first call returning candidates
// ends the cascade, and results are never merged across calls.
func (r *Retriever) Retrieve(ctx context.Context, core string) Outcome {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := r.Config.PerCallTimeout
	if timeout <= 0 {
		timeout = types.DefaultConfig().Retrieval.PerCallTimeout
	}

	strategies := r.Queries.Strategies()
	queries := make([]string, len(strategies))
	for i, s := range strategies {
		queries[i] = r.Queries.Build(core, s)
	}

	var out Outcome
	for _, b := range r.Backends {
		for i, s := range strategies {
			q := queries[i]
			if q == "" {
				continue
			}
			if ctx.Err() != nil {
				return out
			}

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			start := time.Now()
			results, err := b.Search(callCtx, q, r.Config)
			cancel()

			att := Attempt{Source: b.Name(), Strategy: s.String(), Query: q, Duration: time.Since(start)}
			if err != nil {
				att.Err = err.Error()
				out.Attempts = append(out.Attempts, att)
				log.Warn("search source failed",
					zap.String("source", b.Name()),
					zap.String("strategy", s.String()),
					zap.Duration("elapsed", att.Duration),
					zap.Error(err))
				if r.Config.SkipSourceOnFailure && Unavailable(err) {
					break
				}
				continue
			}

			results = normalize(results, b.Name(), maxResults(r.Config))
			att.Results = len(results)
			out.Attempts = append(out.Attempts, att)
			log.Debug("search attempt",
				zap.String("source", b.Name()),
				zap.String("strategy", s.String()),
				zap.Int("results", len(results)))

			if len(results) > 0 {
				out.Candidates = results
				out.Source = b.Name()
				out.Strategy = s.String()
				return out
			}
		}
	}
	return out
}

// untitled is the display title for records that lack one.
const untitled = "Untitled"

// normalize drops records with neither title nor abstract, fills missing
// titles, removes duplicate titles, stamps the source and caps the count.
func normalize(in []types.CandidateReference, source string, max int) []types.CandidateReference {
	out := make([]types.CandidateReference, 0, len(in))
	seen := make(map[string]bool)
	for _, c := range in {
		c.Title = strings.TrimSpace(c.Title)
		c.Abstract = strings.TrimSpace(c.Abstract)
		if c.Title == "" && c.Abstract == "" {
			continue
		}
		if c.Title == "" {
			c.Title = untitled
		} else {
			key := normalizeTitle(c.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		if c.Source == "" {
			c.Source = source
		}
		out = append(out, c)
		if len(out) == max {
			break
		}
	}
	return out
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// maxResults clamps the configured per-source result cap to 1..50.
func maxResults(cfg types.RetrievalConfig) int {
	n := cfg.MaxResults
	switch {
	case n <= 0:
		return types.DefaultConfig().Retrieval.MaxResults
	case n > 50:
		return 50
	default:
		return n
	}
}

// setUserAgent applies the configured client identifier, which the
// bibliographic APIs require.
func setUserAgent(req *http.Request, cfg types.RetrievalConfig) {
	ua := cfg.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
}
