package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	metadomain "github.com/adscope/ad-audit-api/infrastructure/integrator/meta/domain"
	"github.com/adscope/ad-audit-api/internal/config"
	"github.com/adscope/ad-audit-api/internal/domain"
)

// insightFields is the fixed field list requested from the insights edge.
const insightFields = "account_id,campaign_id,adset_id,ad_id,impressions,clicks,spend,ctr,frequency,reach,actions,date_start,date_stop"

type Client interface {
	GetInsights(ctx context.Context, req *domain.MetricPageRequest) (*metadomain.InsightsPage, error)
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) Client {
	rps := cfg.Meta.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &MetaClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Meta.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GetInsights fetches one page of daily insight rows for an ad account.
// Calls are paced client-side so bursts of partitions do not trip the Graph
// API rate limits before the server-side throttle responds.
func (c *MetaClient) GetInsights(ctx context.Context, req *domain.MetricPageRequest) (*metadomain.InsightsPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, req.ExternalID)

	params := url.Values{}
	params.Set("fields", insightFields)
	params.Set("level", string(req.Level))
	params.Set("time_increment", "1")
	params.Set("time_range", fmt.Sprintf(
		`{"since":"%s","until":"%s"}`,
		req.Range.Since.Format("2006-01-02"),
		req.Range.Until.Format("2006-01-02"),
	))
	params.Set("access_token", c.Cfg.Meta.AccessToken)

	if len(req.Breakdowns) > 0 {
		params.Set("breakdowns", strings.Join(req.Breakdowns, ","))
	}
	if req.PageSize > 0 {
		params.Set("limit", strconv.Itoa(req.PageSize))
	}
	if req.Cursor != "" {
		params.Set("after", req.Cursor)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Network failures (timeouts, resets) are worth retrying
		return nil, &domain.FetchError{
			Op:        "meta.GetInsights",
			Message:   err.Error(),
			Transient: true,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{
			Op:        "meta.GetInsights",
			Message:   fmt.Sprintf("reading response body: %v", err),
			Transient: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, body)
	}

	page := &metadomain.InsightsPage{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, &domain.FetchError{
			Op:         "meta.GetInsights",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decoding insights page: %v", err),
			Transient:  false,
		}
	}

	return page, nil
}

// classifyError maps a non-200 Graph API response to a fetch error, marking
// it transient when a retry has a chance of succeeding.
func classifyError(statusCode int, body []byte) *domain.FetchError {
	fetchErr := &domain.FetchError{
		Op:         "meta.GetInsights",
		StatusCode: statusCode,
		Message:    string(body),
		Transient:  statusCode == http.StatusTooManyRequests || statusCode >= 500,
	}

	errResp := &metadomain.ErrorResponse{}
	if err := json.Unmarshal(body, errResp); err != nil {
		return fetchErr
	}

	details := errResp.Error
	fetchErr.Code = details.Code
	if details.Message != "" {
		fetchErr.Message = details.Message
	}

	if details.IsRateLimited() {
		fetchErr.Transient = true
	}
	if details.IsAuthError() {
		fetchErr.Transient = false
	}

	return fetchErr
}
