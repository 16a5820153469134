// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small, valid PDF documents for tests. Every glyph
// is drawn in Helvetica with WinAnsi encoding and a fixed 500/1000 em
// advance so positions are predictable.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Line is a run of text placed at (X, Y) in points with font Size.
type Line struct {
	X, Y float64
	Size float64
	Text string
}

const (
	lineHeight   = 14.0
	topY         = 750.0
	leftX        = 72.0
	fontSize     = 11.0
	linesPerPage = 50
)

// Lines lays out text lines top to bottom on as many pages as needed.
func Lines(lines ...string) []byte {
	var pages [][]Line
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		var page []Line
		for i, s := range lines[start:end] {
			page = append(page, Line{X: leftX, Y: topY - float64(i)*lineHeight, Size: fontSize, Text: s})
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		pages = append(pages, nil)
	}
	return Build(pages...)
}

// Build renders each slice of lines as one page.
func Build(pages ...[]Line) []byte {
	var objs []string

	// 1: catalog, 2: pages, 3: font, then page/content pairs.
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	var kids []string
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	widths := strings.TrimSpace(strings.Repeat("500 ", 224))
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 255 /Widths ["+widths+"] >>")

	for i, lines := range pages {
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := contentStream(lines)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func contentStream(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		size := l.Size
		if size <= 0 {
			size = fontSize
		}
		fmt.Fprintf(&b, "BT /F1 %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", size, l.X, l.Y, encode(l.Text))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// encode converts s to WinAnsi bytes inside a PDF literal string.
func encode(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteByte(byte(r))
		case r < 0x20:
			b.WriteByte(' ')
		case r < 0x100:
			b.WriteByte(byte(r))
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
