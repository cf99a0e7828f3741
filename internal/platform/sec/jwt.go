// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec isolates the security primitives: password hashing, random
// tokens, RS256 access tokens and the role vocabulary.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the identity carried by an access token or resolved from a
// web session.
//
// The staff flag, profile role and capabilities travel inside the token so
// that authorization needs no database round trip. A capability or role
// change takes effect on the next login.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID       string   `json:"uid"`
	Username     string   `json:"unm"`
	Role         string   `json:"rol,omitempty"` // empty when the user has no profile
	Staff        bool     `json:"stf,omitempty"`
	Capabilities []string `json:"cap,omitempty"`
}

// Identity is the subset of a user record needed to mint claims.
type Identity struct {
	UserID       string
	Username     string
	Role         string
	Staff        bool
	Capabilities []string
}

// Claims builds unsigned claims for an identity. Web sessions use them as-is.
func (identity Identity) Claims() *AuthClaims {
	return &AuthClaims{
		UserID:       identity.UserID,
		Username:     identity.Username,
		Role:         identity.Role,
		Staff:        identity.Staff,
		Capabilities: identity.Capabilities,
	}
}

// TokenService handles generation and verification of JWT tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService reads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKeys builds a service from already parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}
}

// GenerateAccessToken signs a token for the identity that expires after timeToLive.
func (service *TokenService) GenerateAccessToken(identity Identity, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()

	claims := identity.Claims()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   identity.UserID,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer and expiry of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
