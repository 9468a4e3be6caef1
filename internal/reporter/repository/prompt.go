package repository

import (
	"fmt"
	"strings"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/utils"
)

// levelPersonas are the fixed system personas keyed by report level.
var levelPersonas = map[entity.ReportLevel]string{
	entity.LevelBeginner: `당신은 경제를 전혀 모르는 사람도 이해할 수 있게 설명하는 친절한 경제 선생님입니다.
- 전문 용어는 반드시 쉬운 말로 풀어서 설명하세요
- 일상적인 비유와 예시를 많이 사용하세요 (예: "금리가 오른다 = 대출이자가 올라간다")
- 숫자보다 방향과 의미를 강조하세요
- 이모지를 적절히 사용해 친근하게 작성하세요
- 전문 용어 사용 시 반드시 괄호로 설명 추가`,

	entity.LevelStandard: `당신은 경제 전반을 다루는 전문 경제 애널리스트입니다.
- 핵심 지표 간의 상관관계와 맥락을 설명하세요
- 역사적 비교와 트렌드를 포함하세요
- 투자자와 일반 시민에게 실질적인 시사점을 제공하세요
- 균형 잡힌 시각으로 리스크와 기회를 모두 다루세요
- 적절한 전문 용어 사용 (너무 어렵지 않게)`,

	entity.LevelExpert: `당신은 매크로 헤지펀드의 수석 이코노미스트입니다.
- 계량경제학적 분석과 통계적 유의성을 포함하세요
- 금융 모델(IS-LM, 필립스 곡선 등)을 활용한 분석을 제공하세요
- 글로벌 자본 흐름과 크로스에셋 상관관계를 심층 분석하세요
- 테일 리스크와 컨벡시티 전략도 다루세요
- 블룸버그/IMF/BIS 수준의 전문적인 언어로 작성하세요`,
}

// levelLabels are the localized display labels per level.
var levelLabels = map[entity.ReportLevel]string{
	entity.LevelBeginner: "주린이",
	entity.LevelStandard: "일반",
	entity.LevelExpert:   "전문가",
}

// LevelLabel returns the localized label for a level.
func LevelLabel(level entity.ReportLevel) string {
	if label, ok := levelLabels[level]; ok {
		return label
	}
	return levelLabels[entity.LevelStandard]
}

// BuildInsightPrompt assembles the full generation request: the level
// persona, the collected data block and the JSON output contract. The
// data block follows the requested indicator order.
func BuildInsightPrompt(
	indicatorIDs []string,
	records map[string]dto.IndicatorRecord,
	level entity.ReportLevel,
	catalog *dto.IndicatorCatalog,
	today time.Time,
) string {
	persona, ok := levelPersonas[level]
	if !ok {
		persona = levelPersonas[entity.LevelStandard]
	}

	var dataBuilder strings.Builder
	for _, id := range indicatorIDs {
		record, ok := records[id]
		if !ok {
			continue
		}
		name := catalog.NameFor(id)
		if record.Value == nil {
			dataBuilder.WriteString(fmt.Sprintf("- %s: 데이터 없음\n", name))
			continue
		}
		changeStr := ""
		if record.ChangePct != nil {
			changeStr = fmt.Sprintf("(%+.2f%%) ", *record.ChangePct)
		}
		dataBuilder.WriteString(fmt.Sprintf("- %s: %v %s[%s]\n", name, *record.Value, changeStr, record.Date))
	}

	promptTemplate := `%s

다음은 오늘(%s) 수집된 경제 지표 데이터입니다.

%s
위 데이터를 분석하여 [%s] 수준의 경제 리포트를 작성하세요.

## 출력 형식 (JSON)
다음 형식으로 정확히 응답하세요:

{
  "title": "리포트 제목 (날짜 포함, 예: 2026년 2월 경제 동향 분석)",
  "summary_line1": "첫 번째 요약 문장 (가장 중요한 메시지)",
  "summary_line2": "두 번째 요약 문장 (핵심 지표 상황)",
  "summary_line3": "세 번째 요약 문장 (투자/생활 시사점)",
  "sections": [
    {
      "title": "섹션 제목",
      "content": "섹션 내용 (HTML 태그 사용 가능: <strong>, <em>, <ul>, <li>, <p>)"
    }
  ]
}

## 필수 섹션 (정확히 4개)
1. 거시경제 현황 요약
2. 주요 지표 분석 (선택된 지표별)
3. 시장 영향 및 시사점
4. 주의사항 및 리스크

두괄식으로 summary를 가장 중요하게 작성하세요.

답변은 JSON 형식만 출력하세요.`

	return fmt.Sprintf(promptTemplate,
		persona,
		utils.FormatKoreanDate(today),
		dataBuilder.String(),
		LevelLabel(level),
	)
}
