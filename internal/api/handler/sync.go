package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/adscope/ad-audit-api/infrastructure/repository"
	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/internal/usecases/ingesting"
	"github.com/adscope/ad-audit-api/internal/window"
	"github.com/adscope/ad-audit-api/pkg/apiErrors"
	"github.com/adscope/ad-audit-api/pkg/log"
	"github.com/adscope/ad-audit-api/pkg/utils"
)

// SyncRequest is the manual sync trigger payload. Either a window token or
// an explicit start_date/end_date pair selects the range.
type SyncRequest struct {
	Window        string   `json:"window,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Level         string   `json:"level"`
	Breakdowns    []string `json:"breakdowns,omitempty"`
	PageSize      int      `json:"page_size,omitempty"`
	LevelFallback bool     `json:"level_fallback,omitempty"`
}

func SyncAccount(accountRepo repository.AccountRepository, ingester ingesting.Ingester) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req SyncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		dateRange, err := resolveSyncRange(&req)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidWindow) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidWindow, err.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		account, err := accountRepo.GetByID(r.Context(), id)
		if err != nil {
			logger.WithError(err).WithField("account_id", id).Error("sync: failed to load account")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to load account", nil)
			return
		}
		if account == nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		logger.WithFields(log.Fields{
			"account_id": id,
			"level":      req.Level,
			"start_date": dateRange.Since.Format(time.DateOnly),
			"end_date":   dateRange.Until.Format(time.DateOnly),
		}).Info("sync: starting manual metric sync")

		result, err := ingester.Sync(r.Context(), &ingesting.SyncRequest{
			Account:       account,
			Range:         dateRange,
			Level:         domain.Level(req.Level),
			Breakdowns:    req.Breakdowns,
			PageSize:      req.PageSize,
			LevelFallback: req.LevelFallback,
		})
		if err != nil {
			writeSyncError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("sync: failed to encode response")
		}
	})
}

// GetSyncRun returns the persisted manifest of a past sync run, failed
// partitions included.
func GetSyncRun(syncRunRepo repository.SyncRunRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		runID := httprouter.ParamsFromContext(r.Context()).ByName("run_id")

		result, err := syncRunRepo.GetByRunID(r.Context(), runID)
		if err != nil {
			logger.WithError(err).WithField("run_id", runID).Error("sync: failed to load sync run")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to load sync run", nil)
			return
		}
		if result == nil {
			http.Error(w, "sync run not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("sync: failed to encode response")
		}
	})
}

func resolveSyncRange(req *SyncRequest) (domain.DateRange, error) {
	if req.Window != "" {
		return window.Resolve(req.Window, time.Now().UTC())
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	if start.IsZero() || end.IsZero() {
		return domain.DateRange{}, errors.New("either window or start_date/end_date is required")
	}

	return domain.DateRange{Since: *start, Until: *end}, nil
}

func writeSyncError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsConfigurationError(err):
		if strings.Contains(err.Error(), "breakdowns") {
			apiErrors.WriteError(w, apiErrors.ErrTooManyBreakdowns, err.Error(), nil)
			return
		}
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case domain.IsTransientFetchError(err):
		apiErrors.WriteError(w, apiErrors.ErrUpstreamThrottled, err.Error(), nil)
	case domain.IsFatalFetchError(err):
		apiErrors.WriteError(w, apiErrors.ErrUpstreamRejected, err.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
	}
}
