package auth_test

import (
	"testing"
	"time"

	"github.com/fleetgrid/orgctx/internal/auth"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate("user-1", "a@example.com", "sess-1")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Zero(t, claims.OrganizationID)
	assert.Empty(t, claims.Role)
}

func TestScopedToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateScoped("user-1", "a@example.com", "sess-1", 42, model.RoleManager)
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, int64(42), claims.OrganizationID)
	assert.Equal(t, string(model.RoleManager), claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager("secret-a", time.Hour).Generate("user-1", "a@example.com", "sess-1")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Generate("user-1", "a@example.com", "sess-1")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}
