//go:build !integration

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateJWT("7", "ADMIN")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, 5*time.Second)
}

func TestParseJWTRejectsForeignSignature(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "1", Role: "ADMIN"})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = ParseJWT(signed)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseJWT(signed)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword("s3cret", hashed))
	assert.False(t, CheckPassword("wrong", hashed))
}
