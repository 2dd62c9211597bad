package handler_test

import (
	"testing"
	"time"

	"datingroulette/backend/internal/api/handler"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := handler.NewTokens("secret", time.Hour)

	token, err := tokens.GenerateToken("user-42")
	require.NoError(t, err)

	userID, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	token, err := handler.NewTokens("secret", time.Hour).GenerateToken("user-42")
	require.NoError(t, err)

	_, err = handler.NewTokens("other", time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, handler.ErrInvalidToken)
}

func TestTokens_RejectsExpired(t *testing.T) {
	tokens := handler.NewTokens("secret", -time.Minute)
	token, err := tokens.GenerateToken("user-42")
	require.NoError(t, err)

	_, err = tokens.ParseToken(token)

	assert.ErrorIs(t, err, handler.ErrInvalidToken)
}

func TestTokens_RejectsMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    "dating-roulette",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = handler.NewTokens("secret", time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, handler.ErrInvalidToken)
}

func TestTokens_AdminRole(t *testing.T) {
	tokens := handler.NewTokens("secret", time.Hour)

	admin, err := tokens.GenerateAdminToken("ops")
	require.NoError(t, err)
	user, err := tokens.GenerateToken("user-42")
	require.NoError(t, err)

	claims, err := tokens.ParseClaims(admin)
	require.NoError(t, err)
	assert.Equal(t, handler.RoleAdmin, claims.Role)
	assert.Equal(t, "ops", claims.Subject)

	claims, err = tokens.ParseClaims(user)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}
