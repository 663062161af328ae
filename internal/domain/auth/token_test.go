package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "super-secret"))
	require.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", EmployeeID: "e1", Email: "a@b.c", Roles: []string{"ROLE_ADMIN"}}

	token, err := GenerateToken(secret, claims, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, "e1", parsed.EmployeeID)
	assert.Equal(t, []string{"ROLE_ADMIN"}, parsed.Roles)

	_, err = ParseToken("other-secret", token)
	require.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	live, err := GenerateToken("s", Claims{UserID: "u"}, time.Hour)
	require.NoError(t, err)
	assert.False(t, TokenExpired(live, now))

	dead, err := GenerateToken("s", Claims{UserID: "u"}, -time.Minute)
	require.NoError(t, err)
	assert.True(t, TokenExpired(dead, now))

	assert.False(t, TokenExpired("abc123", now))
	assert.False(t, TokenExpired("not.a.jwt", now))
}
