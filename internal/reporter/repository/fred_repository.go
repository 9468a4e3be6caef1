package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/utils"

	"golang.org/x/time/rate"
)

const fredHistoryLen = 12

// minRequestsPerMinute floors a configured per-minute request budget so
// an omitted config key degrades to one request per minute instead of a
// divide-by-zero panic at startup.
func minRequestsPerMinute(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// FREDRepository fetches macro/rate time series from the FRED API and
// normalizes them into indicator records. Values keep full precision.
type FREDRepository interface {
	Fetch(ctx context.Context, indicatorID, seriesID string) (dto.IndicatorRecord, error)
}

type fredRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFREDRepository creates a new FRED repository.
func NewFREDRepository(cfg *config.Config, log *logger.Logger) FREDRepository {
	secondsPerRequest := time.Minute / time.Duration(minRequestsPerMinute(cfg.FRED.MaxRequestPerMinute))
	return &fredRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// fredObservation is one raw FRED observation. Missing values are ".".
type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredObservationsResponse struct {
	Observations []fredObservation `json:"observations"`
}

// Fetch retrieves the last year of observations for the series and
// normalizes them. Observations come back in ascending date order.
func (r *fredRepository) Fetch(ctx context.Context, indicatorID, seriesID string) (dto.IndicatorRecord, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	end := utils.TimeNowKST()
	start := end.AddDate(-1, 0, 0)

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", r.cfg.FRED.APIKey)
	q.Set("file_type", "json")
	q.Set("observation_start", start.Format("2006-01-02"))
	q.Set("observation_end", end.Format("2006-01-02"))

	apiURL := fmt.Sprintf("%s/series/observations?%s", r.cfg.FRED.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to create new http request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to send request to FRED API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return dto.IndicatorRecord{}, fmt.Errorf("received non-OK response from FRED API: %d - %s", resp.StatusCode, string(body))
	}

	var fredResp fredObservationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&fredResp); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to decode FRED response: %w", err)
	}

	// Drop missing observations, keeping ascending order.
	var points []dto.HistoryPoint
	for _, obs := range fredResp.Observations {
		if obs.Value == "." || obs.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, dto.HistoryPoint{Date: obs.Date, Value: v})
	}

	if len(points) == 0 {
		return dto.IndicatorRecord{}, fmt.Errorf("no observations for FRED series %s", seriesID)
	}

	latest := points[len(points)-1]
	record := dto.IndicatorRecord{
		IndicatorID: indicatorID,
		Value:       utils.ToPointer(latest.Value),
		Date:        latest.Date,
		Source:      dto.SourceFRED,
	}

	// No change against a zero base; spread series can sit at exactly 0.
	if len(points) > 1 {
		prev := points[len(points)-2]
		record.PrevValue = utils.ToPointer(prev.Value)
		if prev.Value != 0 {
			record.Change = utils.ToPointer(latest.Value - prev.Value)
			record.ChangePct = utils.ToPointer((latest.Value - prev.Value) / prev.Value * 100)
		}
	}

	if len(points) > fredHistoryLen {
		points = points[len(points)-fredHistoryLen:]
	}
	record.History = points

	r.log.DebugContext(ctx, "Fetched FRED series",
		logger.StringField("series_id", seriesID),
		logger.IntField("observations", len(points)),
	)

	return record, nil
}
