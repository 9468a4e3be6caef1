package dto

// Change classes used for card coloring. The boundary is zero; the
// beginner direction glyphs use a separate ±0.5 threshold on purpose.
const (
	ChangeClassUp   = "up"
	ChangeClassDown = "down"
	ChangeClassFlat = "flat"
)

// IndicatorCard is the per-indicator display block embedded in a report.
type IndicatorCard struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	ChangeStr   string `json:"change_str"`
	ChangeClass string `json:"change_class"`
	Emoji       string `json:"emoji,omitempty"`
	Direction   string `json:"direction,omitempty"`
}

// RawDataRow is one row of the expert-level raw data table.
type RawDataRow struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	ChangePct string `json:"change_pct"`
	Date      string `json:"date"`
}

// RenderedReport is the finished document plus its resolved title.
type RenderedReport struct {
	Title string
	HTML  string
}
