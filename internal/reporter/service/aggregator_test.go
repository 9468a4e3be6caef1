package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFREDRepo struct {
	calls   atomic.Int64
	fetchFn func(indicatorID, seriesID string) (dto.IndicatorRecord, error)
}

func (f *fakeFREDRepo) Fetch(_ context.Context, indicatorID, seriesID string) (dto.IndicatorRecord, error) {
	f.calls.Add(1)
	return f.fetchFn(indicatorID, seriesID)
}

type fakeYahooRepo struct {
	fetchFn func(indicatorID, ticker string) (dto.IndicatorRecord, error)
}

func (f *fakeYahooRepo) Fetch(_ context.Context, indicatorID, ticker string) (dto.IndicatorRecord, error) {
	return f.fetchFn(indicatorID, ticker)
}

type fakeWorldBankRepo struct {
	fetchFn func(indicatorID, countryCode, wbIndicator string) (dto.IndicatorRecord, error)
}

func (f *fakeWorldBankRepo) Fetch(_ context.Context, indicatorID, countryCode, wbIndicator string) (dto.IndicatorRecord, error) {
	return f.fetchFn(indicatorID, countryCode, wbIndicator)
}

func okRecord(indicatorID string, source dto.DataSource, value float64) (dto.IndicatorRecord, error) {
	return dto.IndicatorRecord{
		IndicatorID: indicatorID,
		Value:       utils.ToPointer(value),
		Source:      source,
	}, nil
}

func newTestAggregator(t *testing.T, fred *fakeFREDRepo, yahoo *fakeYahooRepo, wb *fakeWorldBankRepo) IndicatorAggregator {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	cfg := &config.Config{Aggregator: config.Aggregator{RecordCacheTTL: time.Minute}}
	return NewIndicatorAggregator(cfg, log, NewSourceRouter(), fred, yahoo, wb, nil)
}

func TestFetchAllReturnsRecordPerRequestedID(t *testing.T) {
	fred := &fakeFREDRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceFRED, 5.25)
	}}
	yahoo := &fakeYahooRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceYahoo, 2650.31)
	}}
	wb := &fakeWorldBankRepo{fetchFn: func(id, _, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceWorldBank, 3.6)
	}}

	agg := newTestAggregator(t, fred, yahoo, wb)

	ids := []string{"fed_funds_rate", "kospi", "kr_cpi", "no_such_indicator"}
	records := agg.FetchAll(context.Background(), ids)

	require.Len(t, records, len(ids))
	assert.Equal(t, dto.SourceFRED, records["fed_funds_rate"].Source)
	assert.Equal(t, dto.SourceYahoo, records["kospi"].Source)
	assert.Equal(t, dto.SourceWorldBank, records["kr_cpi"].Source)

	unknown := records["no_such_indicator"]
	assert.Nil(t, unknown.Value)
	assert.Equal(t, "unsupported indicator", unknown.Error)
}

func TestFetchAllIsolatesSourceFailures(t *testing.T) {
	fred := &fakeFREDRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		if id == "us_cpi" {
			return dto.IndicatorRecord{}, assert.AnError
		}
		return okRecord(id, dto.SourceFRED, 4.1)
	}}
	yahoo := &fakeYahooRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceYahoo, 1.0)
	}}
	wb := &fakeWorldBankRepo{fetchFn: func(id, _, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceWorldBank, 1.0)
	}}

	agg := newTestAggregator(t, fred, yahoo, wb)

	records := agg.FetchAll(context.Background(), []string{"us_cpi", "us_unemployment"})

	require.Len(t, records, 2)
	assert.NotEmpty(t, records["us_cpi"].Error)
	assert.Nil(t, records["us_cpi"].Value)
	assert.Empty(t, records["us_unemployment"].Error)
	require.NotNil(t, records["us_unemployment"].Value)
	assert.Equal(t, 4.1, *records["us_unemployment"].Value)
}

func TestFetchAllDeduplicatesIDs(t *testing.T) {
	fred := &fakeFREDRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceFRED, 5.25)
	}}
	yahoo := &fakeYahooRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceYahoo, 1.0)
	}}
	wb := &fakeWorldBankRepo{fetchFn: func(id, _, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceWorldBank, 1.0)
	}}

	agg := newTestAggregator(t, fred, yahoo, wb)

	records := agg.FetchAll(context.Background(), []string{"fed_funds_rate", "fed_funds_rate", "fed_funds_rate"})

	require.Len(t, records, 1)
	assert.Equal(t, int64(1), fred.calls.Load())
}

func TestFetchAllCachesSuccessfulRecords(t *testing.T) {
	fred := &fakeFREDRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceFRED, 5.25)
	}}
	yahoo := &fakeYahooRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceYahoo, 1.0)
	}}
	wb := &fakeWorldBankRepo{fetchFn: func(id, _, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceWorldBank, 1.0)
	}}

	agg := newTestAggregator(t, fred, yahoo, wb)

	agg.FetchAll(context.Background(), []string{"fed_funds_rate"})
	agg.FetchAll(context.Background(), []string{"fed_funds_rate"})

	assert.Equal(t, int64(1), fred.calls.Load())
}

func TestFetchAllDoesNotCacheErrorRecords(t *testing.T) {
	fred := &fakeFREDRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return dto.IndicatorRecord{}, assert.AnError
	}}
	yahoo := &fakeYahooRepo{fetchFn: func(id, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceYahoo, 1.0)
	}}
	wb := &fakeWorldBankRepo{fetchFn: func(id, _, _ string) (dto.IndicatorRecord, error) {
		return okRecord(id, dto.SourceWorldBank, 1.0)
	}}

	agg := newTestAggregator(t, fred, yahoo, wb)

	agg.FetchAll(context.Background(), []string{"fed_funds_rate"})
	agg.FetchAll(context.Background(), []string{"fed_funds_rate"})

	assert.Equal(t, int64(2), fred.calls.Load())
}
