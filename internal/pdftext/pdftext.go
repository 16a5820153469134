// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext turns uploaded PDF bytes into plain text. A primary
// extractor is tried first and a simpler fallback runs only when the
// primary fails, panics, or yields whitespace. Neither touches the network.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/plagia/pkg/types"
)

// ErrNoText reports that no selectable text could be obtained from the
// document by any strategy.
var ErrNoText = errors.New("no selectable text in document")

// Extractor converts raw PDF bytes into text.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, data []byte) (string, error)
}

// Chain runs Primary and, if it does not produce text, Fallback.
type Chain struct {
	Primary  Extractor
	Fallback Extractor
	Logger   *zap.Logger
}

// New builds the extraction chain for cfg. The fallback is always the
// plain page puller.
func New(cfg types.ExtractionConfig, logger *zap.Logger) (*Chain, error) {
	var primary Extractor
	switch cfg.Backend {
	case "", types.ExtractLayout:
		primary = NewLayoutExtractor(cfg)
	case types.ExtractPdftotext:
		ce, err := NewContainerExtractor(cfg.ContainerImage, nil)
		if err != nil {
			return nil, err
		}
		primary = ce
	default:
		return nil, fmt.Errorf("unknown extraction backend %q: use layout or pdftotext", cfg.Backend)
	}
	return &Chain{
		Primary:  primary,
		Fallback: &PlainExtractor{PageSeparator: cfg.PageSeparator},
		Logger:   logger,
	}, nil
}

// Name returns the chain's composite name.
func (c *Chain) Name() string {
	return c.Primary.Name() + "+" + c.Fallback.Name()
}

// Extract returns the first non-blank text produced by Primary then
// Fallback. Empty input fails immediately with ErrNoText.
func (c *Chain) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document: %w", ErrNoText)
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	text, err := safeExtract(ctx, c.Primary, data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	log.Debug("primary extractor produced no text",
		zap.String("extractor", c.Primary.Name()), zap.Error(err))

	text, ferr := safeExtract(ctx, c.Fallback, data)
	if ferr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	log.Debug("fallback extractor produced no text",
		zap.String("extractor", c.Fallback.Name()), zap.Error(ferr))

	if ferr != nil {
		return "", fmt.Errorf("%w (%s: %v)", ErrNoText, c.Fallback.Name(), ferr)
	}
	return "", ErrNoText
}

// safeExtract converts a panic inside the PDF reader into an error.
func safeExtract(ctx context.Context, e Extractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%s panicked: %v", e.Name(), r)
		}
	}()
	return e.Extract(ctx, data)
}
