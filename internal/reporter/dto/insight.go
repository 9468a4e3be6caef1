package dto

import "strings"

// InsightSection is one titled body of narrative markup.
type InsightSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// InsightDocument is the structured narrative extracted from the AI
// response. The generator guarantees it is always well formed, falling
// back to a single raw-output section when parsing fails.
type InsightDocument struct {
	Title        string           `json:"title"`
	SummaryLine1 string           `json:"summary_line1"`
	SummaryLine2 string           `json:"summary_line2"`
	SummaryLine3 string           `json:"summary_line3"`
	Sections     []InsightSection `json:"sections"`
}

// SummaryLines returns the three summary lines in order.
func (d *InsightDocument) SummaryLines() []string {
	return []string{d.SummaryLine1, d.SummaryLine2, d.SummaryLine3}
}

// Summary joins the three summary lines with newlines, keeping empty
// lines so the stored synopsis always has the same shape.
func (d *InsightDocument) Summary() string {
	return strings.Join(d.SummaryLines(), "\n")
}
