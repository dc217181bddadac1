package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "active"
	AdAccountStatusInactive AdAccountStatus = "inactive"
)

// AdAccount is a paid-social account registered for ingestion and auditing.
// ExternalID is the source platform identifier (without the act_ prefix).
type AdAccount struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	Name       string          `json:"name"`
	Status     AdAccountStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Claims carried by the service-account JWT.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
