package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/pkg/common"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/telegram"
	"golang-econ-reporter/pkg/utils"

	"gorm.io/datatypes"
)

// DefaultIndicators is used for subscribers that never picked their own
// set of indicators.
var DefaultIndicators = []string{
	"fed_funds_rate",
	"us_10y_treasury",
	"us_cpi",
	"us_unemployment",
	"sp500",
	"vix",
	"usd_krw",
	"wti_crude",
}

// ReportPipeline runs the full generation flow for one subscriber:
// collect data, generate the insight, render, persist, then notify.
type ReportPipeline interface {
	RunForSubscriber(ctx context.Context, subscriber *entity.Subscriber) (*entity.Report, error)
}

// NewReportPipeline creates a new pipeline. The notifier may be nil, in
// which case push delivery is skipped entirely.
func NewReportPipeline(
	log *logger.Logger,
	aggregator IndicatorAggregator,
	generator InsightGenerator,
	renderer ReportRenderer,
	reportRepo repository.ReportRepository,
	notifier telegram.Notifier,
) ReportPipeline {
	return &reportPipeline{
		logger:     log,
		aggregator: aggregator,
		generator:  generator,
		renderer:   renderer,
		reportRepo: reportRepo,
		notifier:   notifier,
		now:        utils.TimeNowKST,
	}
}

type reportPipeline struct {
	logger     *logger.Logger
	aggregator IndicatorAggregator
	generator  InsightGenerator
	renderer   ReportRenderer
	reportRepo repository.ReportRepository
	notifier   telegram.Notifier
	now        func() time.Time
}

// RunForSubscriber generates and persists one report. Persistence is the
// only step that can fail the run; notification failures are logged and
// swallowed.
func (p *reportPipeline) RunForSubscriber(ctx context.Context, subscriber *entity.Subscriber) (*entity.Report, error) {
	indicatorIDs := []string(subscriber.SelectedIndicators)
	if len(indicatorIDs) == 0 {
		indicatorIDs = DefaultIndicators
	}

	records := p.aggregator.FetchAll(ctx, indicatorIDs)

	insight := p.generator.Generate(ctx, indicatorIDs, records, subscriber.ReportLevel)

	rendered, err := p.renderer.Render(insight, subscriber.ReportLevel, records, indicatorIDs, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to render report for subscriber %d: %w", subscriber.ID, err)
	}

	rawData, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw indicator data: %w", err)
	}

	report := &entity.Report{
		SubscriberID:   subscriber.ID,
		Title:          rendered.Title,
		Summary:        insight.Summary(),
		HTMLContent:    rendered.HTML,
		Level:          subscriber.ReportLevel,
		IndicatorsUsed: indicatorIDs,
		RawData:        datatypes.JSON(rawData),
	}
	if err := p.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report for subscriber %d: %w", subscriber.ID, err)
	}

	p.logger.Info("Generated report",
		logger.IntField("report_id", int(report.ID)),
		logger.IntField("subscriber_id", int(subscriber.ID)),
		logger.StringField("level", string(subscriber.ReportLevel)),
	)

	p.notify(subscriber, report)

	return report, nil
}

// notify pushes a Telegram message for the new report. Best effort: any
// failure here must never undo or fail the persisted report.
func (p *reportPipeline) notify(subscriber *entity.Subscriber, report *entity.Report) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Recovered from panic while sending report notification",
				logger.Field("panic", rec),
				logger.IntField("subscriber_id", int(subscriber.ID)),
			)
		}
	}()

	if p.notifier == nil || !subscriber.PushEnabled {
		return
	}

	chatID, ok := subscriber.PushChatID()
	if !ok {
		p.logger.Debug("Subscriber has push enabled but no usable push endpoint",
			logger.IntField("subscriber_id", int(subscriber.ID)),
		)
		return
	}

	deepLink := fmt.Sprintf(common.ReportDeepLinkFormat, report.ID)
	message := telegram.FormatReportNotification(report.Title, report.Summary, deepLink)
	if err := p.notifier.SendMessageTo(chatID, message); err != nil {
		p.logger.Error("Failed to send report notification",
			logger.ErrorField(err),
			logger.IntField("subscriber_id", int(subscriber.ID)),
			logger.IntField("report_id", int(report.ID)),
		)
	}
}
