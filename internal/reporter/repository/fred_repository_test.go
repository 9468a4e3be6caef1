package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestFREDFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DGS10", r.URL.Query().Get("series_id"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations": [
			{"date": "2026-08-26", "value": "4.20"},
			{"date": "2026-08-27", "value": "."},
			{"date": "2026-08-28", "value": "4.31"}
		]}`))
	}))
	defer server.Close()

	cfg := &config.Config{FRED: config.FRED{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewFREDRepository(cfg, testLogger(t))

	record, err := repo.Fetch(context.Background(), "us_10y_treasury", "DGS10")
	require.NoError(t, err)

	assert.Equal(t, "us_10y_treasury", record.IndicatorID)
	assert.Equal(t, dto.SourceFRED, record.Source)
	require.NotNil(t, record.Value)
	assert.Equal(t, 4.31, *record.Value)
	assert.Equal(t, "2026-08-28", record.Date)

	// The "." observation is skipped, so the change is against 4.20.
	require.NotNil(t, record.PrevValue)
	assert.Equal(t, 4.20, *record.PrevValue)
	require.NotNil(t, record.Change)
	assert.InDelta(t, 0.11, *record.Change, 1e-9)
	require.NotNil(t, record.ChangePct)
	assert.InDelta(t, 0.11/4.20*100, *record.ChangePct, 1e-9)

	require.Len(t, record.History, 2)
	assert.Equal(t, "2026-08-26", record.History[0].Date)
	assert.Equal(t, "2026-08-28", record.History[1].Date)
}

func TestFREDFetchZeroPreviousValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations": [
			{"date": "2026-08-27", "value": "0"},
			{"date": "2026-08-28", "value": "0.05"}
		]}`))
	}))
	defer server.Close()

	cfg := &config.Config{FRED: config.FRED{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewFREDRepository(cfg, testLogger(t))

	record, err := repo.Fetch(context.Background(), "us_yield_spread_10y2y", "T10Y2Y")
	require.NoError(t, err)

	require.NotNil(t, record.Value)
	assert.Equal(t, 0.05, *record.Value)
	require.NotNil(t, record.PrevValue)
	assert.Equal(t, 0.0, *record.PrevValue)

	// A zero base has no percent change; an Inf here would make the
	// record unmarshalable downstream.
	assert.Nil(t, record.Change)
	assert.Nil(t, record.ChangePct)

	_, err = json.Marshal(record)
	require.NoError(t, err)
}

func TestFREDFetchDefaultsZeroRateBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations": [{"date": "2026-08-28", "value": "4.31"}]}`))
	}))
	defer server.Close()

	// MaxRequestPerMinute omitted from config: the repository still
	// constructs and serves a first request.
	cfg := &config.Config{FRED: config.FRED{BaseURL: server.URL}}
	repo := NewFREDRepository(cfg, testLogger(t))

	record, err := repo.Fetch(context.Background(), "us_10y_treasury", "DGS10")
	require.NoError(t, err)
	require.NotNil(t, record.Value)
	assert.Equal(t, 4.31, *record.Value)
}

func TestFREDFetchNoObservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations": [{"date": "2026-08-28", "value": "."}]}`))
	}))
	defer server.Close()

	cfg := &config.Config{FRED: config.FRED{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewFREDRepository(cfg, testLogger(t))

	_, err := repo.Fetch(context.Background(), "us_10y_treasury", "DGS10")
	assert.Error(t, err)
}

func TestFREDFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := &config.Config{FRED: config.FRED{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewFREDRepository(cfg, testLogger(t))

	_, err := repo.Fetch(context.Background(), "us_10y_treasury", "DGS10")
	assert.Error(t, err)
}
