package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Level represents the entity granularity of a metric record
type Level string

const (
	LevelAccount  Level = "account"
	LevelCampaign Level = "campaign"
	LevelAdset    Level = "adset"
	LevelAd       Level = "ad"
)

func (l Level) Valid() bool {
	switch l {
	case LevelAccount, LevelCampaign, LevelAdset, LevelAd:
		return true
	}
	return false
}

// BreakdownKey is the canonical encoding of the breakdown dimension values of
// a record, e.g. "age=25-34|gender=female". Empty for unbroken-down records.
type BreakdownKey string

// BuildBreakdownKey collapses dimension values into the canonical key.
// Dimensions are sorted by name so the same combination always produces the
// same key regardless of request order.
func BuildBreakdownKey(dimensions map[string]string) BreakdownKey {
	if len(dimensions) == 0 {
		return ""
	}

	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, dimensions[name]))
	}

	return BreakdownKey(strings.Join(parts, "|"))
}

// MetricRecord is one immutable (entity, date, breakdown) performance
// observation. The tuple (EntityID, Level, Date, BreakdownKey) is unique;
// a newer observation for the same tuple replaces the previous one.
type MetricRecord struct {
	AccountID    string            `json:"account_id"`
	EntityID     string            `json:"entity_id"`
	Level        Level             `json:"level"`
	Date         time.Time         `json:"date"`
	BreakdownKey BreakdownKey      `json:"breakdown_key"`
	Impressions  int64             `json:"impressions"`
	Clicks       int64             `json:"clicks"`
	Spend        float64           `json:"spend"`
	Conversions  float64           `json:"conversions"`
	Frequency    float64           `json:"frequency"`
	Raw          map[string]string `json:"raw,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

// Key returns the uniqueness key used for upserts.
func (r *MetricRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", r.EntityID, r.Level, r.Date.Format(time.DateOnly), r.BreakdownKey)
}

// MetricTotals is the aggregation of all records matching a store query.
// Frequency is the impression-weighted average of the per-record frequencies.
type MetricTotals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	Frequency   float64 `json:"frequency"`
	Rows        int64   `json:"rows"`
}

// CTR returns clicks over impressions, zero when there were no impressions.
func (t MetricTotals) CTR() float64 {
	if t.Impressions == 0 {
		return 0
	}
	return float64(t.Clicks) / float64(t.Impressions)
}

// ConversionRate returns conversions over clicks, zero when there were no clicks.
func (t MetricTotals) ConversionRate() float64 {
	if t.Clicks == 0 {
		return 0
	}
	return t.Conversions / float64(t.Clicks)
}
