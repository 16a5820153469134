// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/plagia/internal/container"
)

const defaultPdftotextImage = "pdftotext:latest"

// pdftotextCommand reads the PDF from stdin and writes layout-preserving
// text to stdout.
var pdftotextCommand = []string{"pdftotext", "-layout", "-enc", "UTF-8", "-", "-"}

// ContainerExtractor pipes the document through poppler's pdftotext
// running in a local container image.
type ContainerExtractor struct {
	runtime container.Runtime
	image   string
}

// NewContainerExtractor verifies that image exists in rt and returns an
// extractor using it. A nil rt triggers runtime detection.
func NewContainerExtractor(image string, rt container.Runtime) (*ContainerExtractor, error) {
	if image == "" {
		image = defaultPdftotextImage
	}
	if rt == nil {
		detected, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		rt = detected
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt, image: image}, nil
}

// Name returns the extractor identifier.
func (c *ContainerExtractor) Name() string { return "pdftotext" }

// Extract runs pdftotext over data. Form feeds between pages become newlines.
func (c *ContainerExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, pdftotextCommand, bytes.NewReader(data), &out); err != nil {
		return "", fmt.Errorf("extracting with pdftotext: %w", err)
	}
	return string(bytes.ReplaceAll(out.Bytes(), []byte{'\f'}, []byte{'\n'})), nil
}
