package handler

import (
	"context"
	"net/http"

	"github.com/adscope/ad-audit-api/internal/scheduler"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// TriggerMetricSync starts the full scheduled sync outside its cron window.
func TriggerMetricSync(service *scheduler.MetricSyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("cron: manual metric sync requested")

		// The sync outlives the request, so it does not ride on r.Context()
		service.TriggerManualSync(context.Background())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "metric sync started",
		})
	})
}

// GetCronStatus reports scheduler state.
func GetCronStatus(service *scheduler.MetricSyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.GetStatus())
	})
}
