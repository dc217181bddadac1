package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting"
)

// MetricSyncService schedules the nightly metric sync of every active
// account through the same ingestion pipeline as the manual trigger.
type MetricSyncService struct {
	scheduler   *gocron.Scheduler
	cfg         config.MetricSync
	accountRepo repository.AccountRepository
	metricRepo  repository.MetricRecordRepository
	ingester    ingesting.Ingester

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewMetricSyncService(
	accountRepo repository.AccountRepository,
	metricRepo repository.MetricRecordRepository,
	ingester ingesting.Ingester,
	appConfig *config.Config,
) *MetricSyncService {
	cfg := appConfig.MetricSync

	logrus.WithFields(logrus.Fields{
		"cron_schedule":           cfg.CronSchedule,
		"lookback_days":           cfg.LookbackDays,
		"max_concurrent_accounts": cfg.MaxConcurrentAccounts,
		"retention_days":          cfg.RetentionDays,
		"sync_enabled":            cfg.Enabled,
	}).Info("Metric sync scheduler configuration loaded")

	return &MetricSyncService{
		scheduler:   gocron.NewScheduler(time.UTC),
		cfg:         cfg,
		accountRepo: accountRepo,
		metricRepo:  metricRepo,
		ingester:    ingester,
	}
}

// Start schedules the sync job and stops the scheduler when ctx is cancelled.
func (s *MetricSyncService) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		logrus.Info("Metric sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cfg.CronSchedule).Info("Starting metric sync scheduler")

	_, err := s.scheduler.Cron(s.cfg.CronSchedule).Do(func() {
		s.syncAllAccounts(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling metric sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping metric sync scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllAccounts runs one lookback sync per active account through a
// bounded worker pool. Overlapping runs are skipped, never queued.
func (s *MetricSyncService) syncAllAccounts(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Metric sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	accounts, err := s.accountRepo.ListAccounts(ctx, []domain.AdAccountStatus{domain.AdAccountStatusActive})
	if err != nil {
		logrus.WithError(err).Error("Failed to list accounts for metric sync")
		return
	}

	if len(accounts) == 0 {
		logrus.Info("No active accounts to sync")
		return
	}

	lookback := s.lookbackRange()
	logrus.WithFields(logrus.Fields{
		"accounts":   len(accounts),
		"start_date": lookback.Since.Format(time.DateOnly),
		"end_date":   lookback.Until.Format(time.DateOnly),
	}).Info("Starting metric sync for all active accounts")

	maxConcurrent := s.cfg.MaxConcurrentAccounts
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	semaphore := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for _, account := range accounts {
		if account.ExternalID == "" {
			logrus.WithField("account_id", account.ID).Warn("Account without external_id, skipping")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(account *domain.AdAccount) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			s.syncAccount(ctx, account, lookback)
		}(account)
	}

	wg.Wait()

	s.pruneOldRecords(ctx)

	logrus.WithField("duration", time.Since(s.lastSyncStartedAt).String()).
		Info("Metric sync for all accounts finished")
}

func (s *MetricSyncService) pruneOldRecords(ctx context.Context) {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	deleted, err := s.metricRepo.DeleteOlderThan(ctx, s.cfg.RetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Failed to prune old metric records")
		return
	}

	logrus.WithFields(logrus.Fields{
		"deleted":        deleted,
		"retention_days": s.cfg.RetentionDays,
	}).Info("Pruned metric records past retention")
}

func (s *MetricSyncService) syncAccount(ctx context.Context, account *domain.AdAccount, lookback domain.DateRange) {
	result, err := s.ingester.Sync(ctx, &ingesting.SyncRequest{
		Account:       account,
		Range:         lookback,
		Level:         domain.LevelCampaign,
		PageSize:      s.cfg.PageSize,
		LevelFallback: true,
	})
	if err != nil {
		logrus.WithError(err).
			WithField("account_id", account.ID).
			Error("Metric sync failed for account")
		return
	}

	entry := logrus.WithFields(logrus.Fields{
		"account_id":      account.ID,
		"run_id":          result.RunID,
		"records_written": result.RecordsWritten,
		"failures":        len(result.Failures),
	})
	if result.Succeeded() {
		entry.Info("Metric sync finished for account")
	} else {
		entry.Warn("Metric sync finished for account with partition failures")
	}
}

// lookbackRange covers the configured trailing days ending yesterday;
// today's metrics are still moving upstream.
func (s *MetricSyncService) lookbackRange() domain.DateRange {
	until := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	days := s.cfg.LookbackDays
	if days <= 0 {
		days = 1
	}

	return domain.DateRange{
		Since: until.AddDate(0, 0, -(days - 1)),
		Until: until,
	}
}

// TriggerManualSync kicks off a full sync outside the cron schedule.
func (s *MetricSyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Metric sync already running, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual metric sync")
	go s.syncAllAccounts(ctx)
}

// GetStatus reports the scheduler state for the healthcheck endpoint.
func (s *MetricSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.cfg.Enabled,
		"sync_cron":              s.cfg.CronSchedule,
		"sync_lookback_days":     s.cfg.LookbackDays,
		"sync_max_concurrent":    s.cfg.MaxConcurrentAccounts,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
