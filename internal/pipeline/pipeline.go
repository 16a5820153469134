// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the analysis stages: extraction, cleaning,
// validation, cascading retrieval, scoring, verification code and
// registration. A Pipeline is safe for concurrent use; per-requester state
// travels in the *session.Session passed to Run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/cache"
	"github.com/pdiddy/plagia/internal/clean"
	"github.com/pdiddy/plagia/internal/metrics"
	"github.com/pdiddy/plagia/internal/pdftext"
	"github.com/pdiddy/plagia/internal/query"
	"github.com/pdiddy/plagia/internal/registry"
	"github.com/pdiddy/plagia/internal/search"
	"github.com/pdiddy/plagia/internal/session"
	"github.com/pdiddy/plagia/internal/similarity"
	"github.com/pdiddy/plagia/internal/verify"
	"github.com/pdiddy/plagia/pkg/types"
)

// Stage names used in errors, logs and metrics.
const (
	StageInput    = "input"
	StageQuota    = "quota"
	StageExtract  = "extract"
	StageClean    = "clean"
	StageRetrieve = "retrieve"
	StageScore    = "score"
	StageCode     = "code"
	StageRegister = "register"
	StageVerify   = "verify"
)

// DateLayout formats the registration date.
const DateLayout = "2006-01-02"

// Submission is one analysis request.
type Submission struct {
	Name     string
	Email    string
	Filename string
	PDF      []byte
}

// Result is the report input produced by a successful run.
type Result struct {
	RequestID  string                  `json:"request_id" yaml:"request_id"`
	Name       string                  `json:"name" yaml:"name"`
	Email      string                  `json:"email" yaml:"email"`
	Filename   string                  `json:"filename,omitempty" yaml:"filename,omitempty"`
	Timestamp  time.Time               `json:"timestamp" yaml:"timestamp"`
	Code       string                  `json:"code" yaml:"code"`
	Extractor  string                  `json:"extractor" yaml:"extractor"`
	CoreChars  int                     `json:"core_chars" yaml:"core_chars"`
	CoreWords  int                     `json:"core_words" yaml:"core_words"`
	Source     string                  `json:"source,omitempty" yaml:"source,omitempty"`
	Strategy   string                  `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Attempts   []search.Attempt        `json:"attempts" yaml:"attempts"`
	References []types.ScoredReference `json:"references" yaml:"references"`
	Stats      types.Stats             `json:"stats" yaml:"stats"`
	// Empty is set when every source and strategy returned nothing.
	Empty      bool     `json:"empty" yaml:"empty"`
	Registered bool     `json:"registered" yaml:"registered"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Remaining is the session's quota after this run; -1 means unlimited.
	Remaining int `json:"remaining" yaml:"remaining"`
}

// Pipeline runs analyses.
type Pipeline struct {
	cfg types.Config

	extractor pdftext.Extractor
	cleaner   *clean.Cleaner
	retriever *search.Retriever
	scorer    *similarity.Scorer

	backends     []search.Backend
	registrar    registry.Registrar
	registrarSet bool
	cache        cache.Cache
	loader       *cache.Loader
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
	httpClient   *http.Client
}

// New builds a Pipeline from cfg. Components not supplied through options
// are constructed from configuration.
func New(cfg types.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}

	if p.extractor == nil {
		chain, err := pdftext.New(cfg.Extraction, p.logger.Named("pdftext"))
		if err != nil {
			return nil, fmt.Errorf("building extractor: %w", err)
		}
		p.extractor = chain
	}

	cleaner, err := clean.New(cfg.Cleaning)
	if err != nil {
		return nil, fmt.Errorf("building cleaner: %w", err)
	}
	p.cleaner = cleaner

	if p.backends == nil {
		backends, err := search.NewBackends(cfg.Retrieval, p.httpClient)
		if err != nil {
			return nil, fmt.Errorf("building search backends: %w", err)
		}
		p.backends = backends
	}
	if _, err := query.ParseStrategies(cfg.Query.Strategies); err != nil {
		return nil, fmt.Errorf("building query builder: %w", err)
	}
	p.retriever = &search.Retriever{
		Backends: p.backends,
		Queries:  query.NewBuilder(cfg.Query),
		Config:   cfg.Retrieval,
		Logger:   p.logger.Named("search"),
	}

	scorer, err := similarity.NewScorer(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("building scorer: %w", err)
	}
	p.scorer = scorer

	if err := verify.Check(cfg.Verification); err != nil {
		return nil, fmt.Errorf("building verification: %w", err)
	}

	if !p.registrarSet {
		reg, err := registry.New(cfg.Registration)
		if err != nil {
			return nil, fmt.Errorf("building registrar: %w", err)
		}
		p.registrar = reg
	}

	p.loader = cache.NewLoader(p.cache, p.logger.Named("cache"))
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() types.Config { return p.cfg }

// Run analyzes one submission. Terminal failures are returned as *Error;
// an empty retrieval and a failed registration are reported in the
// Result instead. sess may be nil for an unlimited run.
func (p *Pipeline) Run(ctx context.Context, sub Submission, sess *session.Session) (*Result, error) {
	reqID := uuid.NewString()
	log := p.logger.With(zap.String("request_id", reqID))
	started := p.now()

	rec, err := p.checkInput(sub)
	if err != nil {
		return nil, p.fail(log, err)
	}
	if sess.Remaining() == 0 {
		return nil, p.fail(log, newError(KindQuotaExceeded, StageQuota,
			fmt.Errorf("%d of %d analyses used", sess.Used, sess.Limit)))
	}

	// Extract.
	t0 := time.Now()
	text, hit, err := cache.GetOrLoad(ctx, p.loader,
		cache.Key([]byte(StageExtract), []byte(p.extractor.Name()), sub.PDF),
		func(ctx context.Context) (string, error) { return p.extractor.Extract(ctx, sub.PDF) })
	p.metrics.ObserveStage(StageExtract, time.Since(t0))
	if p.cache != nil {
		p.metrics.CacheLookup(StageExtract, hit)
	}
	if err != nil {
		return nil, p.fail(log, newError(KindExtraction, StageExtract, err))
	}

	// Clean and validate.
	t0 = time.Now()
	core, hit, err := cache.GetOrLoad(ctx, p.loader,
		cache.Key([]byte(StageClean), fingerprint(p.cfg.Cleaning), []byte(text)),
		func(context.Context) (string, error) { return p.cleaner.Clean(text), nil })
	p.metrics.ObserveStage(StageClean, time.Since(t0))
	if p.cache != nil {
		p.metrics.CacheLookup(StageClean, hit)
	}
	if err != nil {
		return nil, p.fail(log, newError(KindValidation, StageClean, err))
	}
	if err := clean.Validate(core, p.cfg.Validation); err != nil {
		return nil, p.fail(log, newError(KindValidation, StageClean, err))
	}
	chars, words := clean.Stats(core)
	log.Debug("document cleaned", zap.Int("chars", chars), zap.Int("words", words))

	// Retrieve.
	t0 = time.Now()
	outcome := p.retriever.Retrieve(ctx, core)
	p.metrics.ObserveStage(StageRetrieve, time.Since(t0))
	for _, a := range outcome.Attempts {
		p.metrics.SearchAttempt(a.Source, a.Strategy, attemptOutcome(a))
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("retrieving references: %w", err)
	}
	if outcome.Empty() {
		log.Info("no candidate references found", zap.Int("attempts", len(outcome.Attempts)))
	}

	// Score.
	t0 = time.Now()
	ranked, hit, err := cache.GetOrLoad(ctx, p.loader,
		cache.Key([]byte(StageScore), fingerprint(p.cfg.Scoring), []byte(core), fingerprint(outcome.Candidates)),
		func(context.Context) (similarity.Ranked, error) { return p.scorer.Score(core, outcome.Candidates), nil })
	p.metrics.ObserveStage(StageScore, time.Since(t0))
	if p.cache != nil {
		p.metrics.CacheLookup(StageScore, hit)
	}
	if err != nil {
		return nil, fmt.Errorf("scoring references: %w", err)
	}

	// Verification code.
	nonce := ""
	if p.cfg.Verification.TimeSalted {
		nonce = verify.Nonce(started)
	}
	code, err := verify.Generate(core, nonce, p.cfg.Verification)
	if err != nil {
		return nil, fmt.Errorf("generating verification code: %w", err)
	}

	res := &Result{
		RequestID:  reqID,
		Name:       rec.Name,
		Email:      rec.Email,
		Filename:   sub.Filename,
		Timestamp:  started,
		Code:       code,
		Extractor:  p.extractor.Name(),
		CoreChars:  chars,
		CoreWords:  words,
		Source:     outcome.Source,
		Strategy:   outcome.Strategy,
		Attempts:   outcome.Attempts,
		References: ranked.References,
		Stats:      p.scorer.Stats(ranked),
		Empty:      outcome.Empty(),
	}

	// Register.
	if p.registrar != nil {
		rec.Code = code
		rec.Date = started.Format(DateLayout)
		if err := p.registrar.Register(ctx, rec); err != nil {
			p.metrics.RegistrationFailed()
			log.Warn("registration failed", zap.String("code", code), zap.Error(err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("verification code %s could not be registered: %v", code, err))
		} else {
			res.Registered = true
		}
	}

	if !res.Empty || p.cfg.Quota.ConsumeOnEmpty {
		sess.Consume()
	}
	res.Remaining = remaining(sess)

	outcomeLabel := "ok"
	if res.Empty {
		outcomeLabel = "empty"
	}
	sims := make([]float64, len(res.References))
	for i, r := range res.References {
		sims[i] = r.Similarity
	}
	p.metrics.Analysis(outcomeLabel, sims...)

	log.Info("analysis complete",
		zap.String("code", code),
		zap.String("source", res.Source),
		zap.String("strategy", res.Strategy),
		zap.Int("candidates", ranked.Total),
		zap.Int("ranked", len(res.References)),
		zap.Duration("elapsed", time.Since(started)))
	return res, nil
}

// Verify reports whether code was issued.
func (p *Pipeline) Verify(ctx context.Context, code string) (bool, error) {
	code = verify.Normalize(code)
	if !verify.Valid(code, p.cfg.Verification) {
		return false, newError(KindInvalidInput, StageVerify, fmt.Errorf("malformed verification code %q", code))
	}
	if p.registrar == nil {
		return false, fmt.Errorf("%w: no registration store configured", registry.ErrRegistration)
	}
	return p.registrar.Lookup(ctx, code)
}

// checkInput validates and sanitizes the requester fields. An empty
// document is left to the extractor, which reports it as unreadable.
func (p *Pipeline) checkInput(sub Submission) (types.VerificationRecord, error) {
	rec := registry.Sanitize(types.VerificationRecord{Name: sub.Name, Email: sub.Email}, p.cfg.Registration.MaxFieldLength)
	var missing []string
	if rec.Name == "" {
		missing = append(missing, "name")
	}
	if rec.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return rec, newError(KindInvalidInput, StageInput, fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return rec, nil
}

func (p *Pipeline) fail(log *zap.Logger, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		p.metrics.StageError(pe.Stage, string(pe.Kind))
		log.Warn("analysis failed", zap.String("stage", pe.Stage), zap.String("kind", string(pe.Kind)), zap.Error(pe.Err))
	}
	return err
}

func attemptOutcome(a search.Attempt) string {
	switch {
	case a.Err != "":
		return "error"
	case a.Results == 0:
		return "empty"
	default:
		return "hit"
	}
}

func remaining(s *session.Session) int {
	if s == nil || s.Limit <= 0 {
		return -1
	}
	return s.Remaining()
}

// fingerprint returns the JSON encoding of v for use in cache keys.
func fingerprint(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
