package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("alice", domain.RoleAdmin, testSecret, time.Hour, "test")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParseAndValidateJWT_Rejections(t *testing.T) {
	expired, err := GenerateJWT("alice", domain.RoleUser, testSecret, -time.Minute, "test")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateJWT("alice", domain.RoleUser, testSecret, time.Hour, "test")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "ROOT",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "mallory"},
	})
	signed, err := forged.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(signed, testSecret)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestParseAndValidateJWT_MissingRoleDefaultsToUser(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestGenerateJWT_InvalidRole(t *testing.T) {
	_, err := GenerateJWT("alice", domain.Role("ROOT"), testSecret, time.Hour, "test")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
