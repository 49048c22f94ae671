// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the security primitives of the campus API: RS256 access
tokens, bcrypt password hashes, opaque random tokens and user roles.

Services receive a [*TokenService] through their constructors and never read
key material themselves.
*/
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every access token verification failure.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims is the access token payload. Identity and role travel in the
// token, so authenticating a request needs no database lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	UniID  string `json:"uni"`
	Role   string `json:"rol"`
}

// TokenService signs and verifies access tokens with an RSA key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	now        func() time.Time
}

// readPEM loads path and parses it with parse.
func readPEM[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: read key %s: %w", path, err)
	}

	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: parse key %s: %w", path, err)
	}
	return key, nil
}

// NewTokenService loads the PEM encoded RSA key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readPEM(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := readPEM(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKeys builds a TokenService from parsed keys. Tests use it
// with a generated pair.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{privateKey: privateKey, publicKey: publicKey, issuer: issuer, now: time.Now}
}

// GenerateAccessToken signs a token for the user that expires after timeToLive.
func (service *TokenService) GenerateAccessToken(userID, uniID, role string, timeToLive time.Duration) (string, error) {
	issuedAt := service.now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		UserID: userID,
		UniID:  uniID,
		Role:   role,
	})

	signed, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken accepts only RS256 tokens from this issuer that carry an expiry
// still in the future and a user id.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
