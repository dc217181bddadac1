package ingesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/domain"
)

func TestIngester_PartitionChunking(t *testing.T) {
	service := &ingester{cfg: config.MetricSync{
		MaxConcurrentPartitions: 2,
		ChunkDays:               30,
		PageSize:                500,
		RetryMax:                2,
		RetryInitialWaitMS:      1,
		RetryMaxWaitMS:          5,
	}}

	tests := []struct {
		name       string
		dateRange  domain.DateRange
		wantChunks int
	}{
		{
			name: "60 days stays whole",
			dateRange: domain.DateRange{
				Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			wantChunks: 1,
		},
		{
			name: "90 days splits into three",
			dateRange: domain.DateRange{
				Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Until: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			},
			wantChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partitions := service.partition(tt.dateRange, domain.LevelCampaign, nil)
			require.Len(t, partitions, tt.wantChunks)

			// Chunks must tile the range exactly, in order, with no gaps
			assert.Equal(t, tt.dateRange.Since, partitions[0].Range.Since)
			assert.Equal(t, tt.dateRange.Until, partitions[len(partitions)-1].Range.Until)
			for i := 1; i < len(partitions); i++ {
				expected := partitions[i-1].Range.Until.AddDate(0, 0, 1)
				assert.Equal(t, expected, partitions[i].Range.Since)
			}
		})
	}
}
