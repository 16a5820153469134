// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/plagia/pkg/types"
)

// gapBucket is the width (points) of the histogram buckets used to find
// column boundaries.
const gapBucket = 20.0

// LayoutExtractor rebuilds reading order from positioned glyphs: glyphs
// are grouped into rows by Y, rows are split into columns when a gap
// recurs at the same X on enough rows, and words are separated where the
// horizontal gap exceeds a fraction of the font size.
type LayoutExtractor struct {
	RowTolerance     float64
	WordGapRatio     float64
	ColumnGap        float64
	MinColumnRowsPct int
	PageSeparator    string
}

// NewLayoutExtractor creates a layout extractor from configuration,
// substituting defaults for unset tolerances.
func NewLayoutExtractor(cfg types.ExtractionConfig) *LayoutExtractor {
	def := types.DefaultConfig().Extraction
	le := &LayoutExtractor{
		RowTolerance:     cfg.RowTolerance,
		WordGapRatio:     cfg.WordGapRatio,
		ColumnGap:        cfg.ColumnGap,
		MinColumnRowsPct: cfg.MinColumnRowsPct,
		PageSeparator:    cfg.PageSeparator,
	}
	if le.RowTolerance <= 0 {
		le.RowTolerance = def.RowTolerance
	}
	if le.WordGapRatio <= 0 {
		le.WordGapRatio = def.WordGapRatio
	}
	if le.ColumnGap <= 0 {
		le.ColumnGap = def.ColumnGap
	}
	if le.MinColumnRowsPct <= 0 {
		le.MinColumnRowsPct = def.MinColumnRowsPct
	}
	if le.PageSeparator == "" {
		le.PageSeparator = def.PageSeparator
	}
	return le
}

// Name returns the extractor identifier.
func (le *LayoutExtractor) Name() string { return "layout" }

// Extract reads every page's glyphs and reassembles them into lines.
func (le *LayoutExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
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
		if text := le.pageText(page.Content().Text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, le.PageSeparator), nil
}

// pageText lays out one page's glyphs as newline-separated rows.
func (le *LayoutExtractor) pageText(glyphs []pdf.Text) string {
	var texts []pdf.Text
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) != "" {
			texts = append(texts, g)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	var lines []string
	for _, col := range le.splitColumns(texts) {
		for _, row := range le.groupRows(col) {
			if line := le.rowText(row); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// groupRows buckets glyphs whose Y lies within RowTolerance of a bucket's
// range and returns rows top to bottom (higher Y first).
func (le *LayoutExtractor) groupRows(texts []pdf.Text) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}
	var buckets []bucket
	for _, t := range texts {
		placed := false
		for i := range buckets {
			b := &buckets[i]
			if t.Y >= b.yMin-le.RowTolerance && t.Y <= b.yMax+le.RowTolerance {
				b.texts = append(b.texts, t)
				b.yMin = math.Min(b.yMin, t.Y)
				b.yMax = math.Max(b.yMax, t.Y)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})
	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		row := b.texts
		sort.SliceStable(row, func(a, c int) bool { return row[a].X < row[c].X })
		rows[i] = row
	}
	return rows
}

// splitColumns detects gaps of at least ColumnGap that recur at the same
// horizontal position on MinColumnRowsPct of rows (and at least three)
// and splits the glyphs at those boundaries, left column first.
func (le *LayoutExtractor) splitColumns(texts []pdf.Text) [][]pdf.Text {
	rows := le.groupRows(texts)
	counts := make(map[int]int)
	for _, row := range rows {
		seen := make(map[int]bool)
		for i := 0; i < len(row)-1; i++ {
			left := row[i].X + row[i].W
			right := row[i+1].X
			if right-left < le.ColumnGap {
				continue
			}
			b := int(((left + right) / 2) / gapBucket)
			if !seen[b] {
				seen[b] = true
				counts[b]++
			}
		}
	}

	minRows := len(rows) * le.MinColumnRowsPct / 100
	if minRows < 3 {
		minRows = 3
	}
	var bounds []float64
	for b, n := range counts {
		if n >= minRows {
			bounds = append(bounds, float64(b)*gapBucket+gapBucket/2)
		}
	}
	if len(bounds) == 0 {
		return [][]pdf.Text{texts}
	}
	sort.Float64s(bounds)

	merged := []float64{bounds[0]}
	for _, b := range bounds[1:] {
		if b-merged[len(merged)-1] > gapBucket*2 {
			merged = append(merged, b)
		}
	}

	cols := make([][]pdf.Text, len(merged)+1)
	for _, t := range texts {
		center := t.X + t.W/2
		idx := sort.SearchFloat64s(merged, center)
		cols[idx] = append(cols[idx], t)
	}

	out := cols[:0]
	for _, c := range cols {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// rowText concatenates an X-sorted row, inserting a space wherever the
// gap to the previous glyph exceeds WordGapRatio of the font size.
func (le *LayoutExtractor) rowText(row []pdf.Text) string {
	var b strings.Builder
	for i, t := range row {
		if i > 0 {
			prev := row[i-1]
			size := math.Max(prev.FontSize, t.FontSize)
			if size <= 0 {
				size = 10
			}
			gap := t.X - (prev.X + prev.W)
			if gap > le.WordGapRatio*size {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
