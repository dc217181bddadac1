package ingesting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/pkg/log"
	"github.com/adscope/ad-audit-api/pkg/utils"
)

// chunkThresholdDays is the range length above which a sync is split into
// ChunkDays-sized partitions.
const chunkThresholdDays = 60

// levelFallbackOrder is tried top to bottom when a sync yields zero rows and
// fallback is requested. Granular levels often return nothing on small or
// freshly-created accounts where campaign-level data exists.
var levelFallbackOrder = []domain.Level{domain.LevelAd, domain.LevelAdset, domain.LevelCampaign}

// SourceClient fetches normalized metric pages from the ads platform.
type SourceClient interface {
	FetchMetricPage(ctx context.Context, req *domain.MetricPageRequest) (*domain.MetricPage, error)
}

// Ingester runs metric syncs against the source and commits pages to the store.
type Ingester interface {
	Sync(ctx context.Context, req *SyncRequest) (*domain.SyncResult, error)
}

// SyncRequest describes one sync run for a single account.
type SyncRequest struct {
	Account    *domain.AdAccount
	Range      domain.DateRange
	Level      domain.Level
	Breakdowns []string
	PageSize   int
	// LevelFallback retries at a coarser level when the run writes zero rows.
	LevelFallback bool
}

type ingester struct {
	source     SourceClient
	metricRepo repository.MetricRecordRepository
	syncRepo   repository.SyncRunRepository
	cfg        config.MetricSync
}

func NewIngester(
	source SourceClient,
	metricRepo repository.MetricRecordRepository,
	syncRepo repository.SyncRunRepository,
	cfg config.MetricSync,
) Ingester {
	return &ingester{
		source:     source,
		metricRepo: metricRepo,
		syncRepo:   syncRepo,
		cfg:        cfg,
	}
}

// Sync validates the request, partitions the range, fetches every partition
// through a bounded worker pool and records the run manifest. Partition
// failures are reported in the result instead of failing the whole run;
// records committed before a failure stand.
func (s *ingester) Sync(ctx context.Context, req *SyncRequest) (*domain.SyncResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "generating run id")
	}

	result := &domain.SyncResult{
		RunID:     runID,
		AccountID: req.Account.ID,
		StartedAt: time.Now().UTC(),
	}

	logger := log.ForContext(ctx).WithField("run_id", runID).WithField("account_id", req.Account.ID)
	logger.Infof("Starting metric sync for level %s from %s to %s",
		req.Level,
		req.Range.Since.Format(time.DateOnly),
		req.Range.Until.Format(time.DateOnly),
	)

	level := req.Level
	for {
		s.runPartitions(ctx, req, level, result)

		if result.RecordsWritten > 0 || !req.LevelFallback || !result.Succeeded() {
			break
		}

		next, ok := fallbackLevel(level)
		if !ok {
			break
		}

		logger.Infof("No rows at level %s, falling back to level %s", level, next)
		level = next
	}

	result.CompletedAt = time.Now().UTC()

	if err := s.syncRepo.SaveManifest(ctx, result); err != nil {
		logger.WithError(err).Error("Failed to persist sync manifest")
	}

	logger.Infof("Metric sync finished: %d partitions, %d pages, %d records, %d failures",
		result.Partitions, result.PagesFetched, result.RecordsWritten, len(result.Failures))

	return result, nil
}

func (s *ingester) validate(req *SyncRequest) error {
	if req.Account == nil || req.Account.ID == "" {
		return &domain.ConfigurationError{Field: "account", Reason: "missing account"}
	}
	if !req.Level.Valid() {
		return &domain.ConfigurationError{Field: "level", Reason: fmt.Sprintf("unknown level %q", req.Level)}
	}
	if len(req.Breakdowns) > domain.MaxBreakdownsPerRequest {
		return &domain.ConfigurationError{
			Field:  "breakdowns",
			Reason: fmt.Sprintf("at most %d breakdowns per request, got %d", domain.MaxBreakdownsPerRequest, len(req.Breakdowns)),
		}
	}
	if req.Range.Since.After(req.Range.Until) {
		return &domain.ConfigurationError{Field: "range", Reason: "since is after until"}
	}
	return nil
}

// runPartitions fetches every partition of the range at the given level with
// a semaphore-bounded worker pool and accumulates into result.
func (s *ingester) runPartitions(ctx context.Context, req *SyncRequest, level domain.Level, result *domain.SyncResult) {
	partitions := s.partition(req.Range, level, req.Breakdowns)
	result.Partitions += len(partitions)

	maxConcurrent := s.cfg.MaxConcurrentPartitions
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, maxConcurrent)
	)

	for _, partition := range partitions {
		wg.Add(1)

		go func(partition domain.SyncPartition) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			pages, records, err := s.syncPartition(ctx, req, partition)

			mu.Lock()
			defer mu.Unlock()

			result.PagesFetched += pages
			result.RecordsWritten += records

			// A failed partition never rolls back its committed pages, and
			// never takes sibling partitions down with it.
			if err != nil {
				result.Failures = append(result.Failures, domain.PartitionFailure{
					Partition: partition,
					Reason:    err.Error(),
					Fatal:     domain.IsFatalFetchError(err),
				})
			}
		}(partition)
	}

	wg.Wait()
}

// syncPartition paginates one partition sequentially. Each page fetch gets
// the retry budget; cancellation is checked before every page.
func (s *ingester) syncPartition(ctx context.Context, req *SyncRequest, partition domain.SyncPartition) (pages, records int, err error) {
	retryCfg := s.retryConfig()
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return pages, records, err
		}

		pageReq := &domain.MetricPageRequest{
			AccountID:  req.Account.ID,
			ExternalID: req.Account.ExternalID,
			Level:      partition.Level,
			Range:      partition.Range,
			Breakdowns: partition.Breakdowns,
			PageSize:   req.PageSize,
			Cursor:     cursor,
		}

		var page *domain.MetricPage
		err := withRetry(ctx, retryCfg, func(ctx context.Context) error {
			var fetchErr error
			page, fetchErr = s.source.FetchMetricPage(ctx, pageReq)
			return fetchErr
		})
		if err != nil {
			return pages, records, err
		}

		written, err := s.metricRepo.SaveOrUpdateBatch(ctx, page.Records)
		records += written
		if err != nil {
			return pages, records, errors.Wrap(err, "committing page")
		}

		pages++

		if page.NextCursor == "" {
			return pages, records, nil
		}
		cursor = page.NextCursor
	}
}

// partition splits ranges longer than chunkThresholdDays into ChunkDays-sized
// slices so a single long backfill does not hold one worker for hours.
func (s *ingester) partition(dateRange domain.DateRange, level domain.Level, breakdowns []string) []domain.SyncPartition {
	chunkDays := s.cfg.ChunkDays
	if chunkDays <= 0 {
		chunkDays = 30
	}

	if dateRange.Days() <= chunkThresholdDays {
		return []domain.SyncPartition{{Range: dateRange, Level: level, Breakdowns: breakdowns}}
	}

	partitions := make([]domain.SyncPartition, 0, dateRange.Days()/chunkDays+1)

	since := dateRange.Since
	for !since.After(dateRange.Until) {
		until := since.AddDate(0, 0, chunkDays-1)
		if until.After(dateRange.Until) {
			until = dateRange.Until
		}

		partitions = append(partitions, domain.SyncPartition{
			Range:      domain.DateRange{Since: since, Until: until},
			Level:      level,
			Breakdowns: breakdowns,
		})

		since = until.AddDate(0, 0, 1)
	}

	return partitions
}

func (s *ingester) retryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	if s.cfg.RetryMax > 0 {
		cfg.MaxRetries = s.cfg.RetryMax
	}
	if s.cfg.RetryInitialWaitMS > 0 {
		cfg.InitialWait = time.Duration(s.cfg.RetryInitialWaitMS) * time.Millisecond
	}
	if s.cfg.RetryMaxWaitMS > 0 {
		cfg.MaxWait = time.Duration(s.cfg.RetryMaxWaitMS) * time.Millisecond
	}
	return cfg
}

func fallbackLevel(level domain.Level) (domain.Level, bool) {
	for i, candidate := range levelFallbackOrder {
		if candidate == level && i+1 < len(levelFallbackOrder) {
			return levelFallbackOrder[i+1], true
		}
	}
	return "", false
}
