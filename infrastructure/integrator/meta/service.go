package meta

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	metadomain "github.com/adscope/ad-audit-api/infrastructure/integrator/meta/domain"
	"github.com/adscope/ad-audit-api/infrastructure/integrator/meta/metaclient"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// MetaIntegrator translates raw Graph API insight rows into normalized
// metric records.
type MetaIntegrator struct {
	client metaclient.Client
}

func NewMetaIntegrator(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		client: client,
	}
}

// FetchMetricPage fetches one page of insights and normalizes every row.
// Rows with unparseable dates are dropped with a warning instead of failing
// the page; malformed numeric fields fall back to zero.
func (s *MetaIntegrator) FetchMetricPage(ctx context.Context, req *domain.MetricPageRequest) (*domain.MetricPage, error) {
	rawPage, err := s.client.GetInsights(ctx, req)
	if err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	records := make([]*domain.MetricRecord, 0, len(rawPage.Data))

	for i := range rawPage.Data {
		record, err := s.normalizeRow(ctx, &rawPage.Data[i], req, fetchedAt)
		if err != nil {
			log.ForContext(ctx).WithField("account_id", req.AccountID).
				WithField("row_date", rawPage.Data[i].DateStart).
				Warnf("Dropping insight row: %v", err)
			continue
		}
		records = append(records, record)
	}

	return &domain.MetricPage{
		Records:    records,
		NextCursor: rawPage.NextCursor(),
	}, nil
}

func (s *MetaIntegrator) normalizeRow(
	ctx context.Context,
	row *metadomain.InsightRow,
	req *domain.MetricPageRequest,
	fetchedAt time.Time,
) (*domain.MetricRecord, error) {
	date, err := time.Parse("2006-01-02", row.DateStart)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing date_start %q", row.DateStart)
	}

	entityID := entityIDForLevel(row, req.Level)
	if entityID == "" {
		return nil, errors.Errorf("row has no entity id for level %s", req.Level)
	}

	dimensions := make(map[string]string, len(req.Breakdowns))
	for _, breakdown := range req.Breakdowns {
		if value, ok := row.Dimensions[breakdown]; ok {
			dimensions[breakdown] = value
		}
	}

	return &domain.MetricRecord{
		AccountID:    req.AccountID,
		EntityID:     entityID,
		Level:        req.Level,
		Date:         date,
		BreakdownKey: domain.BuildBreakdownKey(dimensions),
		Impressions:  parseInt(ctx, "impressions", row.Impressions),
		Clicks:       parseInt(ctx, "clicks", row.Clicks),
		Spend:        parseFloat(ctx, "spend", row.Spend),
		Conversions:  sumActions(ctx, row.Actions),
		Frequency:    parseFloat(ctx, "frequency", row.Frequency),
		Raw:          dimensions,
		FetchedAt:    fetchedAt,
	}, nil
}

func entityIDForLevel(row *metadomain.InsightRow, level domain.Level) string {
	switch level {
	case domain.LevelAccount:
		return row.AccountID
	case domain.LevelCampaign:
		return row.CampaignID
	case domain.LevelAdset:
		return row.AdsetID
	case domain.LevelAd:
		return row.AdID
	}
	return ""
}

func parseInt(ctx context.Context, field, value string) int64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.ForContext(ctx).Warnf("Unparseable %s value %q, using 0", field, value)
		return 0
	}
	return parsed
}

func parseFloat(ctx context.Context, field, value string) float64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.ForContext(ctx).Warnf("Unparseable %s value %q, using 0", field, value)
		return 0
	}
	return parsed
}

// sumActions totals every action bucket into a single conversions figure.
func sumActions(ctx context.Context, actions []metadomain.Action) float64 {
	var total float64
	for _, action := range actions {
		total += parseFloat(ctx, "action "+action.ActionType, action.Value)
	}
	return total
}
