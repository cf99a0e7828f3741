// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip signs an identity and reads the same claims back.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "libris.test")

	identity := sec.Identity{
		UserID:       "u1",
		Username:     "ada",
		Role:         string(sec.RoleLibrarian),
		Staff:        true,
		Capabilities: []string{"can_edit"},
	}

	token, err := service.GenerateAccessToken(identity, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "Librarian", claims.Role)
	assert.True(t, claims.Staff)
	assert.Equal(t, []string{"can_edit"}, claims.Capabilities)
}

/*
TestTokenService_Rejects covers expiry, a foreign issuer and a foreign key.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "libris.test")
	identity := sec.Identity{UserID: "u1"}

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken(identity, -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		token, err := newTokenService(t, "someone.else").GenerateAccessToken(identity, time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.token")
		assert.Error(t, err)
	})
}

/*
TestPasswordHash accepts the original password only.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
}

/*
TestGenerateSecureToken returns distinct tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

/*
TestParseRole accepts only the enumerated roles.
*/
func TestParseRole(t *testing.T) {
	for _, role := range sec.Roles {
		parsed, ok := sec.ParseRole(string(role))
		assert.True(t, ok)
		assert.Equal(t, role, parsed)
	}

	_, ok := sec.ParseRole("admin")
	assert.False(t, ok)
	_, ok = sec.ParseRole("")
	assert.False(t, ok)
}
