package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adscope/ad-audit-api/internal/config"
)

func testAuthConfig(t *testing.T) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Auth: config.Auth{
			Secret:              "test-signing-key",
			ServiceUser:         "audit-service",
			ServicePasswordHash: string(hash),
			TokenTTLHours:       1,
		},
	}
}

func TestService_LoginAndValidate(t *testing.T) {
	service := NewService(testAuthConfig(t))

	token, err := service.Login("audit-service", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "audit-service", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestService_Login_RejectsBadCredentials(t *testing.T) {
	service := NewService(testAuthConfig(t))

	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "wrong password", user: "audit-service", password: "nope"},
		{name: "unknown user", user: "other", password: "s3cret-pass"},
		{name: "empty credentials", user: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(tt.user, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestService_ValidateToken_RejectsForgedToken(t *testing.T) {
	service := NewService(testAuthConfig(t))

	otherCfg := testAuthConfig(t)
	otherCfg.Auth.Secret = "a-different-key"
	forged, err := NewService(otherCfg).Login("audit-service", "s3cret-pass")
	require.NoError(t, err)

	_, err = service.ValidateToken(forged)
	assert.Error(t, err)
}

func TestService_ValidateToken_RejectsGarbage(t *testing.T) {
	service := NewService(testAuthConfig(t))

	_, err := service.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
