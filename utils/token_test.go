package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "1h")

	token, err := issuer.GenerateToken(42, "carrier@example.com", "carrier")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "carrier@example.com", claims.Email)
	assert.Equal(t, "carrier", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", "1h").GenerateToken(1, "a@example.com", "owner")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", "1h").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", "1h")
	claims := Claims{
		UserID: 1,
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", "1h").ValidateToken(token)
	assert.Error(t, err)
}

func TestNewTokenIssuerFallsBackOnBadExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", "not-a-duration")
	assert.Equal(t, 24*time.Hour, issuer.expiry)
}
