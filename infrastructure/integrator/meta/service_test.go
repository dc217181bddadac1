package meta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	metadomain "github.com/adscope/ad-audit-api/infrastructure/integrator/meta/domain"
	"github.com/adscope/ad-audit-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/adscope/ad-audit-api/internal/domain"
)

func TestMetaIntegrator_FetchMetricPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := NewMetaIntegrator(mockClient)

	req := &domain.MetricPageRequest{
		AccountID:  "ACC001",
		ExternalID: "1234567890",
		Level:      domain.LevelCampaign,
		Range: domain.DateRange{
			Since: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			Until: time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC),
		},
		Breakdowns: []string{"creative_type"},
		PageSize:   500,
	}

	mockClient.EXPECT().
		GetInsights(gomock.Any(), req).
		Return(&metadomain.InsightsPage{
			Data: []metadomain.InsightRow{
				{
					DateStart:   "2025-05-01",
					CampaignID:  "CMP001",
					Impressions: "12500",
					Clicks:      "340",
					Spend:       "219.87",
					Frequency:   "1.8",
					Actions: []metadomain.Action{
						{ActionType: "purchase", Value: "12"},
						{ActionType: "lead", Value: "3"},
					},
					Dimensions: map[string]string{"creative_type": "video"},
				},
				{
					// bad date, should be dropped without failing the page
					DateStart:  "not-a-date",
					CampaignID: "CMP002",
				},
				{
					DateStart:   "2025-05-02",
					CampaignID:  "CMP001",
					Impressions: "garbage",
					Clicks:      "",
					Spend:       "10.00",
					Dimensions:  map[string]string{"creative_type": "image"},
				},
			},
			Paging: metadomain.Paging{
				Cursors: metadomain.Cursors{After: "cursor-2"},
				Next:    "https://graph.facebook.com/next",
			},
		}, nil)

	page, err := integrator.FetchMetricPage(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "cursor-2", page.NextCursor)

	first := page.Records[0]
	assert.Equal(t, "ACC001", first.AccountID)
	assert.Equal(t, "CMP001", first.EntityID)
	assert.Equal(t, domain.LevelCampaign, first.Level)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, domain.BreakdownKey("creative_type=video"), first.BreakdownKey)
	assert.Equal(t, int64(12500), first.Impressions)
	assert.Equal(t, int64(340), first.Clicks)
	assert.InDelta(t, 219.87, first.Spend, 0.001)
	assert.InDelta(t, 15.0, first.Conversions, 0.001)
	assert.InDelta(t, 1.8, first.Frequency, 0.001)
	assert.False(t, first.FetchedAt.IsZero())

	second := page.Records[1]
	assert.Equal(t, int64(0), second.Impressions)
	assert.Equal(t, int64(0), second.Clicks)
	assert.Equal(t, domain.BreakdownKey("creative_type=image"), second.BreakdownKey)
}

func TestMetaIntegrator_FetchMetricPage_LastPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := NewMetaIntegrator(mockClient)

	req := &domain.MetricPageRequest{
		AccountID:  "ACC001",
		ExternalID: "1234567890",
		Level:      domain.LevelAccount,
		Cursor:     "cursor-9",
	}

	// No paging.next means the cursor chain is done even if a cursor is set
	mockClient.EXPECT().
		GetInsights(gomock.Any(), req).
		Return(&metadomain.InsightsPage{
			Data: []metadomain.InsightRow{
				{DateStart: "2025-05-03", AccountID: "1234567890", Impressions: "100"},
			},
			Paging: metadomain.Paging{
				Cursors: metadomain.Cursors{After: "cursor-10"},
			},
		}, nil)

	page, err := integrator.FetchMetricPage(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "1234567890", page.Records[0].EntityID)
}

func TestMetaIntegrator_FetchMetricPage_ClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := NewMetaIntegrator(mockClient)

	fetchErr := &domain.FetchError{
		Op:         "meta.GetInsights",
		StatusCode: 429,
		Transient:  true,
	}

	mockClient.EXPECT().
		GetInsights(gomock.Any(), gomock.Any()).
		Return(nil, fetchErr)

	page, err := integrator.FetchMetricPage(context.Background(), &domain.MetricPageRequest{})
	assert.Nil(t, page)
	assert.True(t, domain.IsTransientFetchError(err))
}

func TestBuildBreakdownKey_OrderIndependent(t *testing.T) {
	a := domain.BuildBreakdownKey(map[string]string{"gender": "female", "age": "25-34"})
	b := domain.BuildBreakdownKey(map[string]string{"age": "25-34", "gender": "female"})

	assert.Equal(t, a, b)
	assert.Equal(t, domain.BreakdownKey("age=25-34|gender=female"), a)
}
