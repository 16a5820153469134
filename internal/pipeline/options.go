// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/plagia/internal/cache"
	"github.com/pdiddy/plagia/internal/metrics"
	"github.com/pdiddy/plagia/internal/pdftext"
	"github.com/pdiddy/plagia/internal/registry"
	"github.com/pdiddy/plagia/internal/search"
)

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithBackends replaces the configured bibliographic sources.
func WithBackends(b ...search.Backend) Option {
	return func(p *Pipeline) { p.backends = b }
}

// WithRegistrar sets the registration store. A nil registrar disables
// registration regardless of configuration.
func WithRegistrar(r registry.Registrar) Option {
	return func(p *Pipeline) {
		p.registrar = r
		p.registrarSet = true
	}
}

// WithCache sets the host-owned stage cache.
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithExtractor replaces the configured extraction chain.
func WithExtractor(e pdftext.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithClock sets the time source used for report dates and nonces.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithHTTPClient sets the client used by the default search backends.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.httpClient = c }
}
