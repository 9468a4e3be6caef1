package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang-econ-reporter/internal/reporter/config"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/pkg/common"
	"golang-econ-reporter/pkg/logger"
	redisPkg "golang-econ-reporter/pkg/redis"
	"golang-econ-reporter/pkg/utils"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// MaxFetchBatch is the largest number of indicators one FetchAll call
// accepts; callers enforce it at the API boundary.
const MaxFetchBatch = 20

// IndicatorAggregator collects live data for a set of indicators.
type IndicatorAggregator interface {
	// FetchAll returns a record for every requested id. Individual
	// source failures surface as error records, never as an error of
	// the batch itself.
	FetchAll(ctx context.Context, indicatorIDs []string) map[string]dto.IndicatorRecord
}

// NewIndicatorAggregator creates a new aggregator. The Redis client may
// be nil, in which case only the in-process cache is used.
func NewIndicatorAggregator(
	cfg *config.Config,
	log *logger.Logger,
	router *SourceRouter,
	fredRepo repository.FREDRepository,
	yahooRepo repository.YahooFinanceRepository,
	worldBankRepo repository.WorldBankRepository,
	redisClient *redisPkg.Client,
) IndicatorAggregator {
	ttl := cfg.Aggregator.RecordCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &indicatorAggregator{
		cfg:           cfg,
		logger:        log,
		router:        router,
		fredRepo:      fredRepo,
		yahooRepo:     yahooRepo,
		worldBankRepo: worldBankRepo,
		redisClient:   redisClient,
		cacheTTL:      ttl,
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

type indicatorAggregator struct {
	cfg           *config.Config
	logger        *logger.Logger
	router        *SourceRouter
	fredRepo      repository.FREDRepository
	yahooRepo     repository.YahooFinanceRepository
	worldBankRepo repository.WorldBankRepository
	redisClient   *redisPkg.Client
	cacheTTL      time.Duration
	inmemoryCache *cache.Cache
}

// FetchAll fans out one concurrent fetch per distinct indicator and
// waits for all of them to settle. A failing source never blocks or
// cancels its siblings.
func (a *indicatorAggregator) FetchAll(ctx context.Context, indicatorIDs []string) map[string]dto.IndicatorRecord {
	results := make(map[string]dto.IndicatorRecord, len(indicatorIDs))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	seen := make(map[string]bool, len(indicatorIDs))
	for _, indicatorID := range indicatorIDs {
		if seen[indicatorID] {
			continue
		}
		seen[indicatorID] = true

		id := indicatorID
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			record := a.fetchOne(ctx, id)
			mu.Lock()
			results[id] = record
			mu.Unlock()
		})
	}
	wg.Wait()

	// A recovered panic in a worker leaves its id unset; make sure the
	// contract of one record per requested id still holds.
	for _, id := range indicatorIDs {
		if _, ok := results[id]; !ok {
			results[id] = dto.NewErrorRecord(id, dto.SourceUnknown, "internal error while fetching indicator")
		}
	}

	return results
}

func (a *indicatorAggregator) fetchOne(ctx context.Context, indicatorID string) dto.IndicatorRecord {
	route, ok := a.router.Route(indicatorID)
	if !ok {
		return dto.NewErrorRecord(indicatorID, dto.SourceUnknown, "unsupported indicator")
	}

	if record, ok := a.cachedRecord(ctx, indicatorID); ok {
		return record
	}

	var (
		record dto.IndicatorRecord
		err    error
	)
	switch route.Source {
	case dto.SourceFRED:
		record, err = a.fredRepo.Fetch(ctx, indicatorID, route.Key)
	case dto.SourceYahoo:
		record, err = a.yahooRepo.Fetch(ctx, indicatorID, route.Key)
	case dto.SourceWorldBank:
		record, err = a.worldBankRepo.Fetch(ctx, indicatorID, route.Country, route.Key)
	default:
		return dto.NewErrorRecord(indicatorID, dto.SourceUnknown, "unsupported indicator")
	}

	if err != nil {
		a.logger.Error("Failed to fetch indicator",
			logger.ErrorField(err),
			logger.StringField("indicator_id", indicatorID),
			logger.StringField("source", string(route.Source)),
		)
		return dto.NewErrorRecord(indicatorID, route.Source, err.Error())
	}

	a.storeRecord(ctx, indicatorID, record)
	return record
}

// cachedRecord checks the in-process cache first, then Redis. Only
// successful records are ever cached.
func (a *indicatorAggregator) cachedRecord(ctx context.Context, indicatorID string) (dto.IndicatorRecord, bool) {
	if cached, ok := a.inmemoryCache.Get(indicatorID); ok {
		if record, ok := cached.(dto.IndicatorRecord); ok {
			return record, true
		}
	}

	if a.redisClient == nil {
		return dto.IndicatorRecord{}, false
	}

	key := fmt.Sprintf(common.RedisKeyIndicatorRecord, indicatorID)
	raw, err := a.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			a.logger.Error("Failed to read indicator record from Redis", logger.ErrorField(err), logger.StringField("indicator_id", indicatorID))
		}
		return dto.IndicatorRecord{}, false
	}

	var record dto.IndicatorRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		a.logger.Error("Failed to unmarshal cached indicator record", logger.ErrorField(err), logger.StringField("indicator_id", indicatorID))
		return dto.IndicatorRecord{}, false
	}

	a.inmemoryCache.Set(indicatorID, record, cache.DefaultExpiration)
	return record, true
}

func (a *indicatorAggregator) storeRecord(ctx context.Context, indicatorID string, record dto.IndicatorRecord) {
	a.inmemoryCache.Set(indicatorID, record, cache.DefaultExpiration)

	if a.redisClient == nil {
		return
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	key := fmt.Sprintf(common.RedisKeyIndicatorRecord, indicatorID)
	if err := a.redisClient.Set(ctx, key, raw, a.cacheTTL).Err(); err != nil {
		a.logger.Error("Failed to cache indicator record in Redis", logger.ErrorField(err), logger.StringField("indicator_id", indicatorID))
	}
}
