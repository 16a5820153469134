// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Similarity report {{.Code}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown returns the report as a Markdown document. Free text taken
// from bibliographic sources is escaped so it renders literally.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Similarity report\n\n")
	fmt.Fprintf(&b, "## Requester\n\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", escapeMarkdown(r.Name))
	fmt.Fprintf(&b, "- **Email:** %s\n", escapeMarkdown(r.Email))
	if r.Filename != "" {
		fmt.Fprintf(&b, "- **File:** %s\n", escapeMarkdown(r.Filename))
	}
	fmt.Fprintf(&b, "- **Date:** %s\n", escapeMarkdown(r.When()))
	fmt.Fprintf(&b, "- **Verification code:** `%s`\n\n", r.Code)

	fmt.Fprintf(&b, "## Top references\n\n")
	if r.Empty() {
		fmt.Fprintf(&b, "%s\n", NoReferences)
	} else {
		fmt.Fprintf(&b, "| # | Title | Similarity | Year | Link |\n")
		fmt.Fprintf(&b, "|---|---|---:|---|---|\n")
		for _, e := range r.References {
			fmt.Fprintf(&b, "| %d | %s | %.2f%% | %s | %s |\n",
				e.Rank, escapeMarkdown(e.Title), e.Percent, escapeMarkdown(e.Year), markdownLink(e.Link))
		}
		fmt.Fprintf(&b, "\n**Average similarity:** %.2f%%  \n", r.Summary.ListedPct)
		fmt.Fprintf(&b, "**Highest similarity:** %.2f%%\n", r.Summary.MaxPct)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", escapeMarkdown(w))
		}
	}
	return b.String()
}

// RenderHTML writes the report as a standalone HTML page.
func (r *Report) RenderHTML(w io.Writer) error {
	var body bytes.Buffer
	if err := markdownEngine.Convert([]byte(r.Markdown()), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return pageTemplate.Execute(w, struct {
		Code string
		Body template.HTML
	}{r.Code, template.HTML(body.String())})
}

// escapeMarkdown backslash-escapes ASCII punctuation and flattens
// newlines, so the text cannot open markup, raw HTML or a table cell.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(s), " ") {
		if r < 0x80 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|&~\"'", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func markdownLink(url string) string {
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") ||
		strings.ContainsAny(url, " <>|\n") {
		return escapeMarkdown(url)
	}
	return fmt.Sprintf("[link](<%s>)", url)
}
