// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plagia/internal/cache"
	"github.com/pdiddy/plagia/internal/logging"
	"github.com/pdiddy/plagia/internal/metrics"
	"github.com/pdiddy/plagia/internal/pipeline"
	"github.com/pdiddy/plagia/internal/registry"
	"github.com/pdiddy/plagia/internal/secrets"
	"github.com/pdiddy/plagia/pkg/types"
)

// envKeyReplacer maps nested keys to env names: retrieval.max_results is
// read from PLAGIA_RETRIEVAL_MAX_RESULTS.
var envKeyReplacer = strings.NewReplacer(".", "_")

// optionalKeys have no default value but may still come from the
// environment, so viper must know about them before Unmarshal.
var optionalKeys = []string{
	"retrieval.crossref_mailto",
	"retrieval.semantic_scholar_api_key",
	"retrieval.openalex_email",
	"registration.url",
	"cache.redis_url",
}

// loadConfig resolves the preset named in v, overlays file, environment
// and flag values, and fills credentials from secret files.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	cfg, err := types.PresetConfig(v.GetString("preset"))
	if err != nil {
		return types.Config{}, err
	}
	if err := setDefaults(v, cfg); err != nil {
		return types.Config{}, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg, s)
	return cfg, nil
}

// setDefaults registers every field of cfg as a viper default so that
// environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg types.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	flatten("", tree, func(key string, val any) { v.SetDefault(key, val) })
	for _, k := range optionalKeys {
		if !v.IsSet(k) {
			v.SetDefault(k, "")
		}
	}
	return nil
}

func flatten(prefix string, m map[string]any, set func(string, any)) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(key, sub, set)
			continue
		}
		set(key, val)
	}
}

// app holds the components shared by the subcommands.
type app struct {
	cfg      types.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	closers  []io.Closer
}

// newApp builds the logger, cache, registrar and pipeline from the
// active configuration.
func newApp(m *metrics.Metrics) (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if cl, ok := c.(io.Closer); ok {
		a.closers = append(a.closers, cl)
	}

	reg, err := registry.New(cfg.Registration)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("registration store: %w", err)
	}
	if cl, ok := reg.(io.Closer); ok {
		a.closers = append(a.closers, cl)
	}

	p, err := pipeline.New(cfg,
		pipeline.WithCache(c),
		pipeline.WithRegistrar(reg),
		pipeline.WithMetrics(m),
		pipeline.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.pipeline = p
	return a, nil
}

// Close releases stores and flushes the logger.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("closing", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
