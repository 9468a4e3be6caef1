package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// levelThemes fixes the visual identity per report level.
var levelThemes = map[entity.ReportLevel]levelTheme{
	entity.LevelBeginner: {Template: "beginner.html", Color: "#4CAF50", Label: "주린이"},
	entity.LevelStandard: {Template: "standard.html", Color: "#2196F3", Label: "일반"},
	entity.LevelExpert:   {Template: "expert.html", Color: "#9C27B0", Label: "전문가"},
}

type levelTheme struct {
	Template string
	Color    string
	Label    string
}

// categoryEmojis decorates beginner cards by indicator category.
var categoryEmojis = map[string]string{
	"interest_rates": "🏦",
	"inflation":      "📈",
	"employment":     "👷",
	"growth":         "🏭",
	"market_indices": "📊",
	"fx_commodities": "💱",
}

// directionGlyphThreshold is the percent-change band treated as flat by
// the beginner direction glyphs. Card coloring uses zero instead.
const directionGlyphThreshold = 0.5

// ReportRenderer turns an insight document plus indicator data into the
// final HTML report. Rendering is pure: the same inputs always produce
// the same output.
type ReportRenderer interface {
	Render(insight dto.InsightDocument, level entity.ReportLevel, records map[string]dto.IndicatorRecord, indicatorIDs []string, generatedAt time.Time) (dto.RenderedReport, error)
}

// NewReportRenderer parses the embedded level templates once up front.
func NewReportRenderer(catalog *dto.IndicatorCatalog) (ReportRenderer, error) {
	tmpl, err := template.New("reports").Funcs(template.FuncMap{
		"rawHTML": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &reportRenderer{templates: tmpl, catalog: catalog}, nil
}

type reportRenderer struct {
	templates *template.Template
	catalog   *dto.IndicatorCatalog
}

type reportTemplateData struct {
	Title        string
	Level        string
	LevelLabel   string
	ThemeColor   string
	SummaryLines []string
	Sections     []dto.InsightSection
	Cards        []dto.IndicatorCard
	RawRows      []dto.RawDataRow
	GeneratedAt  string
}

func (r *reportRenderer) Render(insight dto.InsightDocument, level entity.ReportLevel, records map[string]dto.IndicatorRecord, indicatorIDs []string, generatedAt time.Time) (dto.RenderedReport, error) {
	theme, ok := levelThemes[level]
	if !ok {
		theme = levelThemes[entity.LevelStandard]
	}

	title := insight.Title
	if title == "" {
		title = utils.FormatKoreanDate(generatedAt) + " 경제 리포트"
	}

	data := reportTemplateData{
		Title:        title,
		Level:        string(level),
		LevelLabel:   theme.Label,
		ThemeColor:   theme.Color,
		SummaryLines: insight.SummaryLines(),
		Sections:     insight.Sections,
		Cards:        r.buildCards(level, records, indicatorIDs),
		GeneratedAt:  utils.FormatKoreanDate(generatedAt),
	}
	if level == entity.LevelExpert {
		data.RawRows = r.buildRawRows(records, indicatorIDs)
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, theme.Template, data); err != nil {
		return dto.RenderedReport{}, fmt.Errorf("failed to render report template: %w", err)
	}

	return dto.RenderedReport{Title: title, HTML: buf.String()}, nil
}

// buildCards keeps the requested indicator order and skips records that
// never produced a value.
func (r *reportRenderer) buildCards(level entity.ReportLevel, records map[string]dto.IndicatorRecord, indicatorIDs []string) []dto.IndicatorCard {
	cards := make([]dto.IndicatorCard, 0, len(indicatorIDs))
	for _, id := range indicatorIDs {
		record, ok := records[id]
		if !ok || record.Value == nil {
			continue
		}

		card := dto.IndicatorCard{
			Name:        r.catalog.NameFor(id),
			Value:       fmt.Sprintf("%v", *record.Value),
			ChangeStr:   utils.FormatSignedPct(record.ChangePct),
			ChangeClass: changeClass(record.ChangePct),
		}
		if level == entity.LevelBeginner {
			card.Emoji = categoryEmojis[r.catalog.CategoryFor(id)]
			card.Direction = directionGlyph(record.ChangePct)
		}
		cards = append(cards, card)
	}
	return cards
}

// buildRawRows covers every requested indicator, substituting dashes
// where data is missing.
func (r *reportRenderer) buildRawRows(records map[string]dto.IndicatorRecord, indicatorIDs []string) []dto.RawDataRow {
	rows := make([]dto.RawDataRow, 0, len(indicatorIDs))
	for _, id := range indicatorIDs {
		row := dto.RawDataRow{
			Name:      r.catalog.NameFor(id),
			Value:     "-",
			ChangePct: "-",
			Date:      "-",
		}
		if record, ok := records[id]; ok {
			if record.Value != nil {
				row.Value = fmt.Sprintf("%v", *record.Value)
			}
			if record.ChangePct != nil {
				row.ChangePct = utils.FormatSignedPct(record.ChangePct)
			}
			if record.Date != "" {
				row.Date = record.Date
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func changeClass(changePct *float64) string {
	if changePct == nil {
		return dto.ChangeClassFlat
	}
	switch {
	case *changePct > 0:
		return dto.ChangeClassUp
	case *changePct < 0:
		return dto.ChangeClassDown
	default:
		return dto.ChangeClassFlat
	}
}

func directionGlyph(changePct *float64) string {
	if changePct == nil {
		return ""
	}
	switch {
	case *changePct > directionGlyphThreshold:
		return "↗️"
	case *changePct < -directionGlyphThreshold:
		return "↘️"
	default:
		return "➡️"
	}
}
