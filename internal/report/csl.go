// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// CSLItem is a bibliography entry in CSL-YAML form, readable by Pandoc
// and reference managers.
type CSLItem struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Title    string   `yaml:"title"`
	Abstract string   `yaml:"abstract,omitempty"`
	Issued   *CSLDate `yaml:"issued,omitempty"`
	DOI      string   `yaml:"DOI,omitempty"`
	URL      string   `yaml:"URL,omitempty"`
	Note     string   `yaml:"note,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the listed references as a CSL-YAML list.
func (r *Report) FormatCSL(w io.Writer) error {
	items := make([]CSLItem, len(r.References))
	for i, e := range r.References {
		items[i] = toCSLItem(e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(e Entry) CSLItem {
	item := CSLItem{
		ID:       fmt.Sprintf("ref%d", e.Rank),
		Type:     "article-journal",
		Title:    e.Title,
		Abstract: e.Abstract,
		DOI:      e.DOI,
		URL:      e.Link,
		Note:     fmt.Sprintf("similarity %.2f%%", e.Percent),
	}
	if e.DOI != "" {
		item.ID = e.DOI
	}
	if y, err := strconv.Atoi(e.Year); err == nil && y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}
