package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes exposed to API clients
const (
	// Authentication errors (AUTH_*)
	ErrInvalidCredentials    = "AUTH_001" // invalid service credentials
	ErrInvalidToken          = "AUTH_002" // invalid token
	ErrExpiredToken          = "AUTH_003" // expired token
	ErrInsufficientPrivilege = "AUTH_004" // insufficient privileges

	// Validation errors (VAL_*)
	ErrInvalidRequest    = "VAL_001" // malformed request
	ErrInvalidWindow     = "VAL_002" // unknown window token
	ErrTooManyBreakdowns = "VAL_003" // more than two breakdown dimensions
	ErrInvalidRuleConfig = "VAL_004" // malformed audit rule configuration

	// Upstream/sync errors (SYNC_*)
	ErrUpstreamThrottled = "SYNC_001" // source API rate limited / transient
	ErrUpstreamRejected  = "SYNC_002" // source API auth or request error

	// Audit errors (AUD_*)
	ErrInsufficientData = "AUD_001" // no metric records in the window

	// Server errors (SRV_*)
	ErrInternalServer    = "SRV_001" // internal error
	ErrDatabaseOperation = "SRV_002" // database operation failed
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrInvalidWindow:         http.StatusBadRequest,
	ErrTooManyBreakdowns:     http.StatusBadRequest,
	ErrInvalidRuleConfig:     http.StatusUnprocessableEntity,
	ErrUpstreamThrottled:     http.StatusBadGateway,
	ErrUpstreamRejected:      http.StatusBadGateway,
	ErrInsufficientData:      http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError is the standardized error payload
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into a standardized API error
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
