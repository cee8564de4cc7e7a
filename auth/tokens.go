// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind separates API access, API refresh and browser session tokens
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
	KindSession TokenKind = "session"
)

// Claims are carried by every token
type Claims struct {
	Username string    `json:"username"`
	Kind     TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens
type TokenManager struct {
	secret []byte
	ttl    map[TokenKind]time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL, sessionTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl: map[TokenKind]time.Duration{
			KindAccess:  accessTTL,
			KindRefresh: refreshTTL,
			KindSession: sessionTTL,
		},
		now: time.Now,
	}
}

// TTL returns the lifetime of tokens of kind
func (m *TokenManager) TTL(kind TokenKind) time.Duration {
	return m.ttl[kind]
}

// Issue signs a token of kind for the identity
func (m *TokenManager) Issue(id Identity, kind TokenKind) (string, error) {
	now := m.now()
	claims := &Claims{
		Username: id.Username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl[kind])),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind, and returns the identity
func (m *TokenManager) Verify(tokenString string, kind TokenKind) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.Kind != kind {
		return Identity{}, fmt.Errorf("%w: expected %s token, got %s", ErrInvalidToken, kind, claims.Kind)
	}

	return Identity{UserID: claims.Subject, Username: claims.Username}, nil
}
