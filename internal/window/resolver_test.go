package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/ad-audit-api/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	ref := day(2025, time.May, 12)

	tests := []struct {
		token string
		since time.Time
		until time.Time
	}{
		{token: "YTD", since: day(2025, time.January, 1), until: day(2025, time.May, 12)},
		{token: "last_7d", since: day(2025, time.May, 6), until: day(2025, time.May, 12)},
		{token: "last_28d", since: day(2025, time.April, 15), until: day(2025, time.May, 12)},
		{token: "last_1d", since: day(2025, time.May, 12), until: day(2025, time.May, 12)},
		{token: "Q1", since: day(2025, time.January, 1), until: day(2025, time.March, 31)},
		{token: "Q2", since: day(2025, time.April, 1), until: day(2025, time.June, 30)},
		{token: "Q3", since: day(2025, time.July, 1), until: day(2025, time.September, 30)},
		{token: "Q4", since: day(2025, time.October, 1), until: day(2025, time.December, 31)},
		{token: "this_month", since: day(2025, time.May, 1), until: day(2025, time.May, 12)},
		{token: "last_month", since: day(2025, time.April, 1), until: day(2025, time.April, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Resolve(tt.token, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.since, got.Since)
			assert.Equal(t, tt.until, got.Until)
		})
	}
}

func TestResolveLastMonthAcrossYearBoundary(t *testing.T) {
	got, err := Resolve("last_month", day(2025, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.December, 1), got.Since)
	assert.Equal(t, day(2024, time.December, 31), got.Until)
}

func TestResolveIsDeterministic(t *testing.T) {
	ref := day(2025, time.May, 12)

	first, err := Resolve("last_28d", ref)
	require.NoError(t, err)

	second, err := Resolve("last_28d", ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveUnknownToken(t *testing.T) {
	tests := []string{"", "Q5", "ytd", "last_d", "last_0d", "last_-3d", "lifetime"}

	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			_, err := Resolve(token, day(2025, time.May, 12))
			assert.ErrorIs(t, err, domain.ErrInvalidWindow)
		})
	}
}
