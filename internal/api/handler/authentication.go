package handler

import (
	"net/http"

	"github.com/adscope/ad-audit-api/internal/usecases/authenticating"
	"github.com/adscope/ad-audit-api/pkg/apiErrors"
)

type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		token, err := service.Login(req.User, req.Password)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Invalid credentials", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": token,
		})
	}
}
