package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/utils"

	"golang.org/x/time/rate"
)

const yahooHistoryLen = 60

// YahooFinanceRepository fetches market quote series from the Yahoo
// Finance chart API. Quote values are rounded to 2 decimals; the
// renderer depends on this convention.
type YahooFinanceRepository interface {
	Fetch(ctx context.Context, indicatorID, ticker string) (dto.IndicatorRecord, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new Yahoo Finance repository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(minRequestsPerMinute(cfg.Yahoo.MaxRequestPerMinute))
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves one year of daily closes for the ticker.
func (r *yahooFinanceRepository) Fetch(ctx context.Context, indicatorID, ticker string) (dto.IndicatorRecord, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d", r.cfg.Yahoo.BaseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to send request to Yahoo Finance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return dto.IndicatorRecord{}, fmt.Errorf("received non-OK response from Yahoo Finance API: %d - %s", resp.StatusCode, string(body))
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to decode Yahoo Finance response: %w", err)
	}

	if chartResp.Chart.Error != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("yahoo finance error for %s: %s", ticker, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return dto.IndicatorRecord{}, fmt.Errorf("no data for %s", ticker)
	}

	result := chartResp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	var points []dto.HistoryPoint
	for i, c := range closes {
		if c == nil || i >= len(result.Timestamp) {
			continue
		}
		points = append(points, dto.HistoryPoint{
			Date:  time.Unix(result.Timestamp[i], 0).UTC().Format("2006-01-02"),
			Value: round2(*c),
		})
	}

	if len(points) == 0 {
		return dto.IndicatorRecord{}, fmt.Errorf("no data for %s", ticker)
	}

	latest := points[len(points)-1]
	record := dto.IndicatorRecord{
		IndicatorID: indicatorID,
		Value:       utils.ToPointer(latest.Value),
		Date:        latest.Date,
		Source:      dto.SourceYahoo,
	}

	// No change against a zero base.
	if len(points) > 1 {
		prev := points[len(points)-2]
		record.PrevValue = utils.ToPointer(prev.Value)
		if prev.Value != 0 {
			record.Change = utils.ToPointer(round2(latest.Value - prev.Value))
			record.ChangePct = utils.ToPointer(round2((latest.Value - prev.Value) / prev.Value * 100))
		}
	}

	if len(points) > yahooHistoryLen {
		points = points[len(points)-yahooHistoryLen:]
	}
	record.History = points

	r.log.DebugContext(ctx, "Fetched Yahoo Finance chart",
		logger.StringField("ticker", ticker),
		logger.IntField("observations", len(points)),
	)

	return record, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
