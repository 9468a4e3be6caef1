package service

import (
	"context"
	"testing"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAIRepo struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAIRepo) GenerateInsight(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func testCatalog() *dto.IndicatorCatalog {
	return dto.NewIndicatorCatalog([]dto.IndicatorMeta{
		{ID: "fed_funds_rate", NameKo: "미국 기준금리", Category: "interest_rates"},
		{ID: "sp500", NameKo: "S&P 500", Category: "market_indices"},
	})
}

func newTestGenerator(t *testing.T, aiRepo *fakeAIRepo) InsightGenerator {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return NewInsightGenerator(log, aiRepo, testCatalog())
}

func TestGenerateParsesWellFormedResponse(t *testing.T) {
	aiRepo := &fakeAIRepo{response: `{
		"title": "2026년 8월 경제 동향 분석",
		"summary_line1": "금리 동결 기조가 이어지고 있습니다.",
		"summary_line2": "물가는 둔화 추세입니다.",
		"summary_line3": "주식 시장 변동성에 유의하세요.",
		"sections": [{"title": "거시경제 현황 요약", "content": "<p>내용</p>"}]
	}`}
	gen := newTestGenerator(t, aiRepo)

	doc := gen.Generate(context.Background(), []string{"fed_funds_rate"}, nil, entity.LevelStandard)

	assert.Equal(t, "2026년 8월 경제 동향 분석", doc.Title)
	assert.Equal(t, "금리 동결 기조가 이어지고 있습니다.", doc.SummaryLine1)
	require.Len(t, doc.Sections, 1)
}

func TestGenerateStripsMarkdownFences(t *testing.T) {
	aiRepo := &fakeAIRepo{response: "물론입니다! 다음은 리포트입니다.\n```json\n{\"title\": \"리포트\", \"sections\": []}\n```"}
	gen := newTestGenerator(t, aiRepo)

	doc := gen.Generate(context.Background(), []string{"sp500"}, nil, entity.LevelBeginner)

	assert.Equal(t, "리포트", doc.Title)
}

func TestGenerateFallsBackOnUnparsableResponse(t *testing.T) {
	aiRepo := &fakeAIRepo{response: "죄송합니다, JSON을 만들 수 없습니다."}
	gen := newTestGenerator(t, aiRepo)

	doc := gen.Generate(context.Background(), []string{"sp500"}, nil, entity.LevelExpert)

	assert.Contains(t, doc.Title, "경제 리포트")
	assert.Empty(t, doc.SummaryLine1)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "원문", doc.Sections[0].Title)
	assert.Equal(t, aiRepo.response, doc.Sections[0].Content)
}

func TestGenerateFallsBackOnAIError(t *testing.T) {
	aiRepo := &fakeAIRepo{err: assert.AnError}
	gen := newTestGenerator(t, aiRepo)

	doc := gen.Generate(context.Background(), []string{"sp500"}, nil, entity.LevelStandard)

	assert.Contains(t, doc.Title, "경제 리포트")
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "원문", doc.Sections[0].Title)
}

func TestGeneratePromptCarriesIndicatorData(t *testing.T) {
	aiRepo := &fakeAIRepo{response: `{"title": "t", "sections": []}`}
	gen := newTestGenerator(t, aiRepo)

	value := 5.25
	changePct := -1.2
	records := map[string]dto.IndicatorRecord{
		"fed_funds_rate": {IndicatorID: "fed_funds_rate", Value: &value, ChangePct: &changePct, Date: "2026-08-28", Source: dto.SourceFRED},
		"sp500":          {IndicatorID: "sp500", Source: dto.SourceFRED, Error: "boom"},
	}

	gen.Generate(context.Background(), []string{"fed_funds_rate", "sp500"}, records, entity.LevelStandard)

	require.Len(t, aiRepo.prompts, 1)
	prompt := aiRepo.prompts[0]
	assert.Contains(t, prompt, "미국 기준금리: 5.25 (-1.20%) [2026-08-28]")
	assert.Contains(t, prompt, "S&P 500: 데이터 없음")
	assert.Contains(t, prompt, "[일반]")
}

func TestParseInsightDocumentNoJSON(t *testing.T) {
	_, err := ParseInsightDocument("no braces here")
	assert.Error(t, err)
}
