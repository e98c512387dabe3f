package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "aylar",
		Email:    "aylar@example.com",
		Role:     models.RoleWorkspaceAdmin,
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "pm", "pm-client", 24*time.Hour)
	user := testUser()

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleWorkspaceAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "pm", "pm-client", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "pm", "pm-client", time.Hour)
	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	other := NewTokenIssuer("another-secret-that-is-long-enough-999", "pm", "pm-client", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := NewTokenIssuer(testSecret, "pm", "someone-else", time.Hour)
	_, err = wrongAudience.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
