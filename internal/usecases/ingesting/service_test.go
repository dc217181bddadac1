package ingesting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	repomocks "github.com/adscope/ad-audit-api/infrastructure/repository/mocks"
	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting/mocks"
)

func testSyncConfig() config.MetricSync {
	return config.MetricSync{
		MaxConcurrentPartitions: 2,
		ChunkDays:               30,
		PageSize:                500,
		RetryMax:                2,
		RetryInitialWaitMS:      1,
		RetryMaxWaitMS:          5,
	}
}

func testAccount() *domain.AdAccount {
	return &domain.AdAccount{
		ID:         "ACC001",
		ExternalID: "1234567890",
		Name:       "Store A",
		Status:     domain.AdAccountStatusActive,
	}
}

func shortRange() domain.DateRange {
	return domain.DateRange{
		Since: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
	}
}

func recordsFor(entityID string, count int) []*domain.MetricRecord {
	records := make([]*domain.MetricRecord, count)
	for i := range records {
		records[i] = &domain.MetricRecord{
			AccountID: "ACC001",
			EntityID:  entityID,
			Level:     domain.LevelCampaign,
			Date:      time.Date(2025, 5, 1+i, 0, 0, 0, 0, time.UTC),
		}
	}
	return records
}

func TestIngester_Sync_RejectsTooManyBreakdowns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT on any collaborator: rejection happens before any call
	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	result, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account:    testAccount(),
		Range:      shortRange(),
		Level:      domain.LevelCampaign,
		Breakdowns: []string{"age", "gender", "creative_type"},
	})

	assert.Nil(t, result)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestIngester_Sync_RejectsInvalidLevel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := ingesting.NewIngester(
		mocks.NewMockSourceClient(ctrl),
		repomocks.NewMockMetricRecordRepository(ctrl),
		repomocks.NewMockSyncRunRepository(ctrl),
		testSyncConfig(),
	)

	_, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account: testAccount(),
		Range:   shortRange(),
		Level:   domain.Level("keyword"),
	})

	assert.True(t, domain.IsConfigurationError(err))
}

func TestIngester_Sync_PaginatesSequentially(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	pageOne := recordsFor("CMP001", 2)
	pageTwo := recordsFor("CMP002", 1)

	first := mockSource.EXPECT().
		FetchMetricPage(gomock.Any(), cursorMatcher("")).
		Return(&domain.MetricPage{Records: pageOne, NextCursor: "cursor-2"}, nil)

	mockSource.EXPECT().
		FetchMetricPage(gomock.Any(), cursorMatcher("cursor-2")).
		Return(&domain.MetricPage{Records: pageTwo}, nil).
		After(first)

	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), pageOne).Return(2, nil)
	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), pageTwo).Return(1, nil)

	mockSyncRepo.EXPECT().SaveManifest(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account:  testAccount(),
		Range:    shortRange(),
		Level:    domain.LevelCampaign,
		PageSize: 500,
	})

	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 1, result.Partitions)
	assert.Equal(t, 2, result.PagesFetched)
	assert.Equal(t, 3, result.RecordsWritten)
	assert.NotEmpty(t, result.RunID)
}

func TestIngester_Sync_RetriesTransientThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	throttled := &domain.FetchError{Op: "meta.GetInsights", StatusCode: 429, Transient: true}
	records := recordsFor("CMP001", 1)

	gomock.InOrder(
		mockSource.EXPECT().FetchMetricPage(gomock.Any(), gomock.Any()).Return(nil, throttled),
		mockSource.EXPECT().FetchMetricPage(gomock.Any(), gomock.Any()).Return(nil, throttled),
		mockSource.EXPECT().FetchMetricPage(gomock.Any(), gomock.Any()).Return(&domain.MetricPage{Records: records}, nil),
	)

	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), records).Return(1, nil)
	mockSyncRepo.EXPECT().SaveManifest(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account: testAccount(),
		Range:   shortRange(),
		Level:   domain.LevelCampaign,
	})

	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 1, result.RecordsWritten)
}

func TestIngester_Sync_FatalPartitionLeavesOthersCommitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	// 70 days with 30-day chunks: three partitions
	longRange := domain.DateRange{
		Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	fatalSince := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	records := recordsFor("CMP001", 2)
	fatal := &domain.FetchError{Op: "meta.GetInsights", StatusCode: 401, Code: 190, Transient: false}

	mockSource.EXPECT().
		FetchMetricPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.MetricPageRequest) (*domain.MetricPage, error) {
			if req.Range.Since.Equal(fatalSince) {
				return nil, fatal
			}
			return &domain.MetricPage{Records: records}, nil
		}).
		Times(3)

	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), records).Return(2, nil).Times(2)
	mockSyncRepo.EXPECT().SaveManifest(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account: testAccount(),
		Range:   longRange,
		Level:   domain.LevelCampaign,
	})

	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, 3, result.Partitions)
	assert.Equal(t, 4, result.RecordsWritten)

	require.Len(t, result.Failures, 1)
	assert.True(t, result.Failures[0].Fatal)
	assert.Equal(t, fatalSince, result.Failures[0].Partition.Range.Since)
}

func TestIngester_Sync_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockSyncRepo.EXPECT().SaveManifest(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.Sync(ctx, &ingesting.SyncRequest{
		Account: testAccount(),
		Range:   shortRange(),
		Level:   domain.LevelCampaign,
	})

	require.NoError(t, err)
	assert.Zero(t, result.PagesFetched)
	assert.Zero(t, result.RecordsWritten)
	require.Len(t, result.Failures, 1)
	assert.False(t, result.Failures[0].Fatal)
}

func TestIngester_Sync_LevelFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSource := mocks.NewMockSourceClient(ctrl)
	mockMetricRepo := repomocks.NewMockMetricRecordRepository(ctrl)
	mockSyncRepo := repomocks.NewMockSyncRunRepository(ctrl)

	service := ingesting.NewIngester(mockSource, mockMetricRepo, mockSyncRepo, testSyncConfig())

	adsetRecords := []*domain.MetricRecord{
		{AccountID: "ACC001", EntityID: "ADSET001", Level: domain.LevelAdset},
	}

	mockSource.EXPECT().
		FetchMetricPage(gomock.Any(), levelMatcher(domain.LevelAd)).
		Return(&domain.MetricPage{}, nil)
	mockSource.EXPECT().
		FetchMetricPage(gomock.Any(), levelMatcher(domain.LevelAdset)).
		Return(&domain.MetricPage{Records: adsetRecords}, nil)

	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), gomock.Len(0)).Return(0, nil)
	mockMetricRepo.EXPECT().SaveOrUpdateBatch(gomock.Any(), adsetRecords).Return(1, nil)
	mockSyncRepo.EXPECT().SaveManifest(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.Sync(context.Background(), &ingesting.SyncRequest{
		Account:       testAccount(),
		Range:         shortRange(),
		Level:         domain.LevelAd,
		LevelFallback: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Partitions)
	assert.Equal(t, 1, result.RecordsWritten)
}

type pageRequestMatcher struct {
	check func(*domain.MetricPageRequest) bool
	desc  string
}

func (m pageRequestMatcher) Matches(x any) bool {
	req, ok := x.(*domain.MetricPageRequest)
	return ok && m.check(req)
}

func (m pageRequestMatcher) String() string { return m.desc }

func cursorMatcher(cursor string) gomock.Matcher {
	return pageRequestMatcher{
		check: func(req *domain.MetricPageRequest) bool { return req.Cursor == cursor },
		desc:  "page request with cursor " + cursor,
	}
}

func levelMatcher(level domain.Level) gomock.Matcher {
	return pageRequestMatcher{
		check: func(req *domain.MetricPageRequest) bool { return req.Level == level },
		desc:  "page request at level " + string(level),
	}
}
