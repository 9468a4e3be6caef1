package service

import (
	"context"
	"time"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/pkg/logger"
)

// IsDueOn reports whether a frequency produces a report on the given
// date. Daily is always due, weekly on Mondays, monthly on the first of
// the month.
func IsDueOn(frequency entity.ReportFrequency, date time.Time) bool {
	switch frequency {
	case entity.FrequencyDaily:
		return true
	case entity.FrequencyWeekly:
		return date.Weekday() == time.Monday
	case entity.FrequencyMonthly:
		return date.Day() == 1
	default:
		return false
	}
}

// ReportScheduler drives batch report generation over the subscriber
// base, either for an explicit frequency or for whatever is due on a
// given date.
type ReportScheduler interface {
	RunForFrequency(ctx context.Context, frequency entity.ReportFrequency) (int, error)
	RunDueToday(ctx context.Context, today time.Time)
}

// NewReportScheduler creates a new scheduler.
func NewReportScheduler(log *logger.Logger, subscriberRepo repository.SubscriberRepository, pipeline ReportPipeline) ReportScheduler {
	return &reportScheduler{
		logger:         log,
		subscriberRepo: subscriberRepo,
		pipeline:       pipeline,
	}
}

type reportScheduler struct {
	logger         *logger.Logger
	subscriberRepo repository.SubscriberRepository
	pipeline       ReportPipeline
}

// RunForFrequency generates a report for every active subscriber with
// the given frequency. One subscriber failing never stops the batch; the
// return value counts the reports that were actually persisted.
func (s *reportScheduler) RunForFrequency(ctx context.Context, frequency entity.ReportFrequency) (int, error) {
	subscribers, err := s.subscriberRepo.FindActiveByFrequency(ctx, frequency)
	if err != nil {
		return 0, err
	}

	generated := 0
	for i := range subscribers {
		subscriber := &subscribers[i]
		if s.runOne(ctx, subscriber) {
			generated++
		}
	}

	s.logger.Info("Finished scheduled report run",
		logger.StringField("frequency", string(frequency)),
		logger.IntField("subscribers", len(subscribers)),
		logger.IntField("generated", generated),
	)
	return generated, nil
}

// RunDueToday walks every active subscriber once and generates a report
// for those whose frequency is due on the given date. A subscriber has
// exactly one frequency, so at most one report per subscriber per tick.
func (s *reportScheduler) RunDueToday(ctx context.Context, today time.Time) {
	subscribers, err := s.subscriberRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active subscribers", logger.ErrorField(err))
		return
	}

	due := 0
	generated := 0
	for i := range subscribers {
		subscriber := &subscribers[i]
		if !IsDueOn(subscriber.ReportFrequency, today) {
			continue
		}
		due++
		if s.runOne(ctx, subscriber) {
			generated++
		}
	}

	s.logger.Info("Finished daily report tick",
		logger.StringField("date", today.Format("2006-01-02")),
		logger.IntField("due", due),
		logger.IntField("generated", generated),
	)
}

// runOne isolates a single subscriber run, including panics, so a bad
// subscriber never takes down the rest of the batch.
func (s *reportScheduler) runOne(ctx context.Context, subscriber *entity.Subscriber) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			s.logger.Error("Recovered from panic while generating report",
				logger.Field("panic", rec),
				logger.IntField("subscriber_id", int(subscriber.ID)),
			)
		}
	}()

	if _, err := s.pipeline.RunForSubscriber(ctx, subscriber); err != nil {
		s.logger.Error("Failed to generate report for subscriber",
			logger.ErrorField(err),
			logger.IntField("subscriber_id", int(subscriber.ID)),
		)
		return false
	}
	return true
}
