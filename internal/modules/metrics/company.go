package metrics

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/aristath/stockdash/internal/domain"
)

// Field is one labelled line of company information
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Link is set when Value should be rendered as a hyperlink
	Link string `json:"link,omitempty"`
}

// CompanyInfo is the descriptive block shown under the tables
type CompanyInfo struct {
	Header  string  `json:"header"`
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	Fields  []Field `json:"fields"`
	Summary string  `json:"summary,omitempty"`
}

// Header renders "Company Name (SYM)", falling back to the symbol when the name is unknown
func Header(meta domain.Metadata, symbol string) string {
	return fmt.Sprintf("%s (%s)", meta.Text("longName", symbol), symbol)
}

// BuildCompanyInfo collects the descriptive fields. Missing fields render as N/A.
func BuildCompanyInfo(meta domain.Metadata, symbol string) CompanyInfo {
	info := CompanyInfo{
		Header: Header(meta, symbol),
		Name:   meta.Text("longName", symbol),
		Symbol: symbol,
		Fields: []Field{
			{Label: "Sector", Value: meta.Text("sector", NotAvailable)},
			{Label: "Industry", Value: meta.Text("industry", NotAvailable)},
			{Label: "Country", Value: meta.Text("country", NotAvailable)},
			{Label: "Employees", Value: FormatCount(meta.Get("fullTimeEmployees"))},
			{Label: "Exchange", Value: meta.Text("exchange", NotAvailable)},
			{Label: "Currency", Value: meta.Text("currency", NotAvailable)},
		},
	}

	website := Field{Label: "Website", Value: meta.Text("website", NotAvailable)}
	if website.Value != NotAvailable {
		website.Link = website.Value
	}
	info.Fields = append(info.Fields, website)

	if s, ok := meta.Get("longBusinessSummary").Str(); ok {
		info.Summary = strings.TrimSpace(s)
	}

	return info
}

// Markdown renders the company block as Markdown
func (c CompanyInfo) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", c.Header)
	for _, f := range c.Fields {
		if f.Link != "" {
			fmt.Fprintf(&b, "- **%s:** [%s](%s)\n", f.Label, f.Value, f.Link)
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", f.Label, f.Value)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "\n### Business Summary\n\n%s\n", c.Summary)
	}
	return b.String()
}

// HTML renders the Markdown form through goldmark
func (c CompanyInfo) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(c.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render company info: %w", err)
	}
	return buf.String(), nil
}

// Markdown renders the metrics table as a Markdown table
func (t Table) Markdown() string {
	var b strings.Builder
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	for _, r := range t {
		fmt.Fprintf(&b, "| %s | %s |\n", r.Metric, r.Value)
	}
	return b.String()
}

// TilesMarkdown renders the headline tiles as a bullet list
func TilesMarkdown(tiles []Tile) string {
	var b strings.Builder
	for _, tile := range tiles {
		if tile.Delta != "" {
			fmt.Fprintf(&b, "- **%s:** %s (%s)\n", tile.Label, tile.Value, tile.Delta)
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", tile.Label, tile.Value)
	}
	return b.String()
}
