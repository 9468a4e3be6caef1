package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/pkg/logger"
	"golang-econ-reporter/pkg/utils"

	"golang.org/x/time/rate"
)

const worldBankHistoryLen = 5

// WorldBankRepository fetches annual cross-country statistics from the
// World Bank open data API.
type WorldBankRepository interface {
	Fetch(ctx context.Context, indicatorID, countryCode, wbIndicator string) (dto.IndicatorRecord, error)
}

type worldBankRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewWorldBankRepository creates a new World Bank repository.
func NewWorldBankRepository(cfg *config.Config, log *logger.Logger) WorldBankRepository {
	secondsPerRequest := time.Minute / time.Duration(minRequestsPerMinute(cfg.WorldBank.MaxRequestPerMinute))
	return &worldBankRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// worldBankEntry is one raw observation. The API returns the most
// recent values first.
type worldBankEntry struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Fetch retrieves the most recent values for the indicator.
func (r *worldBankRepository) Fetch(ctx context.Context, indicatorID, countryCode, wbIndicator string) (dto.IndicatorRecord, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v2/country/%s/indicator/%s?format=json&mrv=%d",
		r.cfg.WorldBank.BaseURL, countryCode, wbIndicator, worldBankHistoryLen)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to create new http request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to send request to World Bank API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return dto.IndicatorRecord{}, fmt.Errorf("received non-OK response from World Bank API: %d - %s", resp.StatusCode, string(body))
	}

	// The response is a two-element array: [metadata, entries].
	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to decode World Bank response: %w", err)
	}
	if len(envelope) < 2 {
		return dto.IndicatorRecord{}, fmt.Errorf("unexpected World Bank response shape for %s", indicatorID)
	}

	var entries []worldBankEntry
	if err := json.Unmarshal(envelope[1], &entries); err != nil {
		return dto.IndicatorRecord{}, fmt.Errorf("failed to parse World Bank entries: %w", err)
	}

	// Newest first; drop missing values.
	var valid []worldBankEntry
	for _, e := range entries {
		if e.Value != nil {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return dto.IndicatorRecord{}, fmt.Errorf("no World Bank data for %s", indicatorID)
	}

	latest := valid[0]
	record := dto.IndicatorRecord{
		IndicatorID: indicatorID,
		Value:       utils.ToPointer(*latest.Value),
		Date:        latest.Date,
		Source:      dto.SourceWorldBank,
	}

	// No change against a zero base.
	if len(valid) > 1 {
		prev := valid[1]
		record.PrevValue = utils.ToPointer(*prev.Value)
		if *prev.Value != 0 {
			record.Change = utils.ToPointer(*latest.Value - *prev.Value)
			record.ChangePct = utils.ToPointer((*latest.Value - *prev.Value) / *prev.Value * 100)
		}
	}

	// History is stored oldest first.
	if len(valid) > worldBankHistoryLen {
		valid = valid[:worldBankHistoryLen]
	}
	history := make([]dto.HistoryPoint, 0, len(valid))
	for i := len(valid) - 1; i >= 0; i-- {
		history = append(history, dto.HistoryPoint{Date: valid[i].Date, Value: *valid[i].Value})
	}
	record.History = history

	r.log.DebugContext(ctx, "Fetched World Bank series",
		logger.StringField("indicator", wbIndicator),
		logger.StringField("country", countryCode),
		logger.IntField("observations", len(history)),
	)

	return record, nil
}
