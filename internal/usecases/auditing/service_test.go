package auditing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adscope/ad-audit-api/infrastructure/repository/mocks"
	"github.com/adscope/ad-audit-api/internal/domain"
)

func testAuditConfig() *AuditConfig {
	return &AuditConfig{
		Level:         domain.LevelCampaign,
		Windows:       []string{"YTD", "last_7d"},
		PrimaryWindow: "YTD",
		Rules: []domain.AuditRule{
			{
				Type:         domain.RuleCTRThreshold,
				CTRThreshold: &domain.CTRThresholdParams{MinCTR: 0.01},
			},
		},
	}
}

func TestAuditor_RunAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMetricRepo := mocks.NewMockMetricRecordRepository(ctrl)
	mockReportRepo := mocks.NewMockAuditReportRepository(ctrl)

	service := NewAuditor(NewEngine(mockMetricRepo), testAuditConfig(), mockReportRepo)

	mockMetricRepo.EXPECT().
		AggregateTotals(gomock.Any(), gomock.Any()).
		Return(&domain.MetricTotals{Impressions: 10000, Clicks: 173, Rows: 10}, nil).
		Times(2)

	var saved *domain.AuditReport
	mockReportRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, report *domain.AuditReport) error {
			saved = report
			return nil
		})

	report, err := service.RunAudit(context.Background(), "ACC001", "")
	require.NoError(t, err)

	assert.Equal(t, "YTD", report.PrimaryWindow)
	assert.Len(t, report.Results, 2)
	assert.InDelta(t, 100.0, report.OverallScore, 0.001)
	assert.Same(t, report, saved)
}

func TestAuditor_RunAudit_RejectsUnauditedPrimaryWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMetricRepo := mocks.NewMockMetricRecordRepository(ctrl)
	mockReportRepo := mocks.NewMockAuditReportRepository(ctrl)

	service := NewAuditor(NewEngine(mockMetricRepo), testAuditConfig(), mockReportRepo)

	_, err := service.RunAudit(context.Background(), "ACC001", "Q3")
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestAuditor_GetLatestReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMetricRepo := mocks.NewMockMetricRecordRepository(ctrl)
	mockReportRepo := mocks.NewMockAuditReportRepository(ctrl)

	service := NewAuditor(NewEngine(mockMetricRepo), testAuditConfig(), mockReportRepo)

	stored := &domain.AuditReport{AccountID: "ACC001", PrimaryWindow: "YTD"}
	mockReportRepo.EXPECT().
		GetLatestByAccountID(gomock.Any(), "ACC001").
		Return(stored, nil)

	report, err := service.GetLatestReport(context.Background(), "ACC001")
	require.NoError(t, err)
	assert.Same(t, stored, report)
}
