package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/internal/usecases/auditing"
	"github.com/adscope/ad-audit-api/pkg/apiErrors"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// RunAudit evaluates the configured audit for the account. The headline
// window can be overridden with ?primary_window=<token>.
func RunAudit(auditor auditing.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		primaryWindow := r.URL.Query().Get("primary_window")

		logger.WithFields(log.Fields{
			"account_id":     id,
			"primary_window": primaryWindow,
		}).Info("audit: running account audit")

		report, err := auditor.RunAudit(r.Context(), id, primaryWindow)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidWindow) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidWindow, err.Error(), nil)
				return
			}
			if domain.IsConfigurationError(err) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRuleConfig, err.Error(), nil)
				return
			}

			logger.WithError(err).WithField("account_id", id).Error("audit: run failed")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("audit: failed to encode response")
		}
	})
}

// GetLatestAudit returns the most recently persisted report for the account.
func GetLatestAudit(auditor auditing.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		report, err := auditor.GetLatestReport(r.Context(), id)
		if err != nil {
			logger.WithError(err).WithField("account_id", id).Error("audit: failed to load latest report")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to load audit report", nil)
			return
		}
		if report == nil {
			http.Error(w, "no audit report for account", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("audit: failed to encode response")
		}
	})
}
