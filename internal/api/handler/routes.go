package handler

import (
	"net/http"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/api/handler/router"
	"github.com/adscope/ad-audit-api/internal/scheduler"
	"github.com/adscope/ad-audit-api/internal/usecases/auditing"
	"github.com/adscope/ad-audit-api/internal/usecases/authenticating"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting"
	"github.com/adscope/ad-audit-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Sync(accountRepo repository.AccountRepository, syncRunRepo repository.SyncRunRepository, ingester ingesting.Ingester) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/sync",
			Method:      http.MethodPost,
			Handler:     SyncAccount(accountRepo, ingester),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync-runs/:run_id",
			Method:      http.MethodGet,
			Handler:     GetSyncRun(syncRunRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Audit(auditor auditing.Auditor) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/audit",
			Method:      http.MethodGet,
			Handler:     RunAudit(auditor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/audit/latest",
			Method:      http.MethodGet,
			Handler:     GetLatestAudit(auditor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(service *scheduler.MetricSyncService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/metric-sync/run",
			Method:      http.MethodPost,
			Handler:     TriggerMetricSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}
