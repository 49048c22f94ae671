// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenServiceFromKeys(key, &key.PublicKey, "campus.test")
}

/*
TestTokenService_RoundTrip verifies that a freshly signed token verifies with identical claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "U-100", string(RoleStudent), time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "U-100", claims.UniID)
	assert.Equal(t, "student", claims.Role)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTestTokenService(t)
	service.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := service.GenerateAccessToken("user-1", "U-100", string(RoleStudent), time.Minute)
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

/*
TestTokenService_RejectsForeignAlgorithm verifies that an HMAC token is refused
even when its claims look valid.
*/
func TestTokenService_RejectsForeignAlgorithm(t *testing.T) {
	service := newTestTokenService(t)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "campus.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "attacker",
		Role:   string(RoleAdmin),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = service.VerifyToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherIssuer(t *testing.T) {
	service := newTestTokenService(t)
	other := NewTokenServiceFromKeys(service.privateKey, service.publicKey, "someone.else")

	token, err := other.GenerateAccessToken("user-1", "U-1", string(RoleStudent), time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes in unpadded base64url
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)

	assert.Equal(t, HashToken(first), HashToken(first))
	assert.NotEqual(t, HashToken(first), HashToken(second))
	assert.Len(t, HashToken(first), 64)
}

func TestUserRole(t *testing.T) {
	tests := []struct {
		role    UserRole
		valid   bool
		isAdmin bool
	}{
		{RoleAdmin, true, true},
		{RoleStudent, true, false},
		{UserRole("moderator"), false, false},
		{UserRole(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.isAdmin, tt.role.IsAdmin())
		})
	}
}
