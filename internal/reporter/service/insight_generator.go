package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/utils"
)

var errNoJSONObject = errors.New("no JSON object found in model output")

// InsightGenerator turns collected indicator data into a structured
// narrative document.
type InsightGenerator interface {
	// Generate never fails: when the AI call or parsing goes wrong the
	// result is a fallback document wrapping whatever text came back.
	Generate(ctx context.Context, indicatorIDs []string, records map[string]dto.IndicatorRecord, level entity.ReportLevel) dto.InsightDocument
}

// NewInsightGenerator creates a new generator backed by the given AI
// repository.
func NewInsightGenerator(log *logger.Logger, aiRepo repository.AIRepository, catalog *dto.IndicatorCatalog) InsightGenerator {
	return &insightGenerator{
		logger:  log,
		aiRepo:  aiRepo,
		catalog: catalog,
		now:     utils.TimeNowKST,
	}
}

type insightGenerator struct {
	logger  *logger.Logger
	aiRepo  repository.AIRepository
	catalog *dto.IndicatorCatalog
	now     func() time.Time
}

func (g *insightGenerator) Generate(ctx context.Context, indicatorIDs []string, records map[string]dto.IndicatorRecord, level entity.ReportLevel) dto.InsightDocument {
	prompt := repository.BuildInsightPrompt(indicatorIDs, records, level, g.catalog, g.now())

	raw, err := g.aiRepo.GenerateInsight(ctx, prompt)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to generate insight, using fallback document",
			logger.ErrorField(err),
			logger.StringField("level", string(level)),
		)
		return g.fallbackDocument(raw)
	}

	doc, err := ParseInsightDocument(raw)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to parse insight response, using fallback document",
			logger.ErrorField(err),
			logger.StringField("level", string(level)),
		)
		return g.fallbackDocument(raw)
	}

	return doc
}

// ParseInsightDocument extracts the JSON object embedded in the raw AI
// output. Models often wrap the payload in markdown fences or prose, so
// everything outside the outermost braces is discarded before decoding.
func ParseInsightDocument(raw string) (dto.InsightDocument, error) {
	var doc dto.InsightDocument

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return doc, errNoJSONObject
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// fallbackDocument wraps the raw model output (possibly empty) into a
// minimal but well-formed document so the pipeline can keep going.
func (g *insightGenerator) fallbackDocument(raw string) dto.InsightDocument {
	return dto.InsightDocument{
		Title: utils.FormatKoreanDate(g.now()) + " 경제 리포트",
		Sections: []dto.InsightSection{
			{Title: "원문", Content: raw},
		},
	}
}
