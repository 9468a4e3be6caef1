package dto

// DataSource identifies which upstream API produced a record.
type DataSource string

const (
	SourceFRED      DataSource = "FRED"
	SourceYahoo     DataSource = "Yahoo Finance"
	SourceWorldBank DataSource = "World Bank"
	SourceUnknown   DataSource = "unknown"
)

// HistoryPoint is one dated observation of an indicator.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// IndicatorRecord is the normalized result of fetching one indicator.
// Exactly one of Value or Error is set on a terminal record.
type IndicatorRecord struct {
	IndicatorID string         `json:"indicator_id"`
	Value       *float64       `json:"value"`
	PrevValue   *float64       `json:"prev_value,omitempty"`
	Change      *float64       `json:"change,omitempty"`
	ChangePct   *float64       `json:"change_pct,omitempty"`
	Date        string         `json:"date,omitempty"`
	History     []HistoryPoint `json:"history,omitempty"`
	Source      DataSource     `json:"source"`
	Error       string         `json:"error,omitempty"`
}

// NewErrorRecord builds a terminal record carrying only an error.
func NewErrorRecord(indicatorID string, source DataSource, errMsg string) IndicatorRecord {
	return IndicatorRecord{
		IndicatorID: indicatorID,
		Source:      source,
		Error:       errMsg,
	}
}

// IndicatorMeta is the static, localized description of one indicator.
type IndicatorMeta struct {
	ID       string `json:"id"`
	NameKo   string `json:"name_ko"`
	Category string `json:"category"`
}

// IndicatorCatalog is an immutable view over the configured indicator
// metadata. It is built once at startup and shared read-only.
type IndicatorCatalog struct {
	metas []IndicatorMeta
	byID  map[string]IndicatorMeta
}

// NewIndicatorCatalog builds a catalog preserving the configured order.
func NewIndicatorCatalog(metas []IndicatorMeta) *IndicatorCatalog {
	byID := make(map[string]IndicatorMeta, len(metas))
	for _, m := range metas {
		byID[m.ID] = m
	}
	return &IndicatorCatalog{metas: metas, byID: byID}
}

// Metas returns the configured metadata in order.
func (c *IndicatorCatalog) Metas() []IndicatorMeta {
	return c.metas
}

// NameFor returns the localized name, falling back to the raw id.
func (c *IndicatorCatalog) NameFor(indicatorID string) string {
	if m, ok := c.byID[indicatorID]; ok && m.NameKo != "" {
		return m.NameKo
	}
	return indicatorID
}

// CategoryFor returns the category, or an empty string when unknown.
func (c *IndicatorCatalog) CategoryFor(indicatorID string) string {
	return c.byID[indicatorID].Category
}

// Has reports whether the catalog knows the indicator.
func (c *IndicatorCatalog) Has(indicatorID string) bool {
	_, ok := c.byID[indicatorID]
	return ok
}
