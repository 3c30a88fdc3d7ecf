package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := &accessClaims{
		UserID: "user-1",
		Email:  "admin@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidate(t *testing.T) {
	v := NewValidator(testSecret)

	token := signToken(t, testSecret, time.Now().UTC().Add(time.Hour))

	claims, err := v.Validate(token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidate_Expired(t *testing.T) {
	v := NewValidator(testSecret)

	token := signToken(t, testSecret, time.Now().UTC().Add(-time.Hour))

	_, err := v.Validate(token)

	assert.Error(t, err)
}

func TestValidate_WrongSecret(t *testing.T) {
	v := NewValidator(testSecret)

	token := signToken(t, "other-secret", time.Now().UTC().Add(time.Hour))

	_, err := v.Validate(token)

	assert.Error(t, err)
}

func TestValidate_WrongSigningMethod(t *testing.T) {
	v := NewValidator(testSecret)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1",
		"role":    "admin",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Validate(token)

	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	v := NewValidator(testSecret)

	_, err := v.Validate("not-a-token")

	assert.Error(t, err)
}
