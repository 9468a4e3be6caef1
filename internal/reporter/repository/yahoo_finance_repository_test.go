package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYahooFetchRoundsToTwoDecimals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/^GSPC")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = fmt.Fprint(w, `{"chart": {"result": [{
			"timestamp": [1756166400, 1756252800, 1756339200],
			"indicators": {"quote": [{"close": [6401.123456, null, 6423.987654]}]}
		}], "error": null}}`)
	}))
	defer server.Close()

	cfg := &config.Config{Yahoo: config.YahooFinance{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewYahooFinanceRepository(cfg, testLogger(t))

	record, err := repo.Fetch(context.Background(), "sp500", "^GSPC")
	require.NoError(t, err)

	assert.Equal(t, dto.SourceYahoo, record.Source)
	require.NotNil(t, record.Value)
	assert.Equal(t, 6423.99, *record.Value)

	// The null close is dropped, so the previous value is the first one.
	require.NotNil(t, record.PrevValue)
	assert.Equal(t, 6401.12, *record.PrevValue)
	require.NotNil(t, record.Change)
	assert.Equal(t, 22.87, *record.Change)
	require.NotNil(t, record.ChangePct)
	assert.Equal(t, 0.36, *record.ChangePct)

	require.Len(t, record.History, 2)
}

func TestYahooFetchZeroPreviousClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"chart": {"result": [{
			"timestamp": [1756166400, 1756252800],
			"indicators": {"quote": [{"close": [0, 0.05]}]}
		}], "error": null}}`)
	}))
	defer server.Close()

	cfg := &config.Config{Yahoo: config.YahooFinance{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewYahooFinanceRepository(cfg, testLogger(t))

	record, err := repo.Fetch(context.Background(), "wti_crude", "CL=F")
	require.NoError(t, err)

	require.NotNil(t, record.PrevValue)
	assert.Equal(t, 0.0, *record.PrevValue)
	assert.Nil(t, record.Change)
	assert.Nil(t, record.ChangePct)
}

func TestYahooFetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`)
	}))
	defer server.Close()

	cfg := &config.Config{Yahoo: config.YahooFinance{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewYahooFinanceRepository(cfg, testLogger(t))

	_, err := repo.Fetch(context.Background(), "sp500", "^GSPC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestYahooFetchAllClosesNull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"chart": {"result": [{
			"timestamp": [1756166400],
			"indicators": {"quote": [{"close": [null]}]}
		}], "error": null}}`)
	}))
	defer server.Close()

	cfg := &config.Config{Yahoo: config.YahooFinance{BaseURL: server.URL, MaxRequestPerMinute: 120}}
	repo := NewYahooFinanceRepository(cfg, testLogger(t))

	_, err := repo.Fetch(context.Background(), "sp500", "^GSPC")
	assert.Error(t, err)
}
