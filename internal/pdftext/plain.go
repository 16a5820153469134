// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PlainExtractor pulls each page's text in content-stream order with no
// layout analysis. Unreadable pages are skipped.
type PlainExtractor struct {
	PageSeparator string
}

// Name returns the extractor identifier.
func (p *PlainExtractor) Name() string { return "plain" }

// Extract returns the concatenated plain text of every readable page.
func (p *PlainExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	sep := p.PageSeparator
	if sep == "" {
		sep = "\n"
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, sep), nil
}
