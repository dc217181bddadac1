package auditing

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/infrastructure/repository/mocks"
	"github.com/adscope/ad-audit-api/internal/domain"
)

var testRefDate = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

func ctrRule(window string) domain.AuditRule {
	return domain.AuditRule{
		Type:         domain.RuleCTRThreshold,
		Window:       window,
		Level:        domain.LevelCampaign,
		CTRThreshold: &domain.CTRThresholdParams{MinCTR: 0.01},
	}
}

func TestEngine_Evaluate_ScoresRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
	engine := NewEngine(mockRepo)

	rules := []domain.AuditRule{
		ctrRule("YTD"),
		{
			Type:                domain.RuleBudgetConcentration,
			Window:              "YTD",
			Level:               domain.LevelCampaign,
			BudgetConcentration: &domain.BudgetConcentrationParams{TopN: 3, MaxShare: 0.7},
		},
		{
			Type:              domain.RuleCreativeDiversity,
			Window:            "YTD",
			Level:             domain.LevelCampaign,
			CreativeDiversity: &domain.CreativeDiversityParams{MinVideoShare: 0.2, MinImageShare: 0.2},
		},
	}

	totals := &domain.MetricTotals{Impressions: 10000, Clicks: 173, Spend: 5000, Rows: 42}

	mockRepo.EXPECT().
		AggregateTotals(gomock.Any(), gomock.Any()).
		Return(totals, nil).
		Times(3)
	mockRepo.EXPECT().
		TopSpendShare(gomock.Any(), gomock.Any(), 3).
		Return(0.9613, nil)
	mockRepo.EXPECT().
		CreativeSpendShares(gomock.Any(), "ACC001", domain.LevelCampaign, gomock.Any()).
		Return(0.0, 0.0, nil)

	results, err := engine.Evaluate(context.Background(), "ACC001", rules, testRefDate)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results come back in rule order despite parallel evaluation
	assert.Equal(t, domain.RuleCTRThreshold, results[0].Rule)
	require.True(t, results[0].Scored())
	assert.InDelta(t, 100.0, *results[0].Score, 0.001)

	assert.Equal(t, domain.RuleBudgetConcentration, results[1].Rule)
	require.True(t, results[1].Scored())
	assert.InDelta(t, 12.9, *results[1].Score, 0.1)

	assert.Equal(t, domain.RuleCreativeDiversity, results[2].Rule)
	require.True(t, results[2].Scored())
	assert.InDelta(t, 80.0, *results[2].Score, 0.001)

	// Resolved window bounds ride along for report drill-down
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), results[0].WindowRange.Since)
	assert.Equal(t, testRefDate, results[0].WindowRange.Until)
}

func TestEngine_Evaluate_InvalidWindowFailsBeforeAnyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT: the store must not be touched
	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
	engine := NewEngine(mockRepo)

	_, err := engine.Evaluate(context.Background(), "ACC001", []domain.AuditRule{ctrRule("Q5")}, testRefDate)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestEngine_Evaluate_ZeroRowsIsInsufficientData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
	engine := NewEngine(mockRepo)

	mockRepo.EXPECT().
		AggregateTotals(gomock.Any(), gomock.Any()).
		Return(&domain.MetricTotals{Rows: 0}, nil)

	results, err := engine.Evaluate(context.Background(), "ACC001", []domain.AuditRule{ctrRule("last_7d")}, testRefDate)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.RuleStatusInsufficientData, results[0].Status)
	assert.Nil(t, results[0].Score)
}

func TestEngine_Evaluate_StoreErrorBecomesFailedResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMetricRecordRepository(ctrl)
	engine := NewEngine(mockRepo)

	rules := []domain.AuditRule{ctrRule("YTD"), ctrRule("last_7d")}

	ytdFilter := repository.AggregateFilter{
		AccountID: "ACC001",
		Level:     domain.LevelCampaign,
		Range: domain.DateRange{
			Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Until: testRefDate,
		},
	}

	mockRepo.EXPECT().
		AggregateTotals(gomock.Any(), ytdFilter).
		Return(nil, errors.New("connection refused"))
	mockRepo.EXPECT().
		AggregateTotals(gomock.Any(), gomock.Not(ytdFilter)).
		Return(&domain.MetricTotals{Impressions: 100, Clicks: 5, Rows: 1}, nil)

	results, err := engine.Evaluate(context.Background(), "ACC001", rules, testRefDate)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// One failing query never takes down the sibling rule
	assert.Equal(t, domain.RuleStatusFailed, results[0].Status)
	assert.Contains(t, results[0].Findings["error"], "connection refused")
	assert.True(t, results[1].Scored())
}
