// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewID(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID() error = %v", err)
		}
		if len(id) != 36 {
			t.Errorf("NewID() length = %d, want 36", len(id))
		}
		ids[i] = id
	}

	// IDs sort in creation order
	if !sort.StringsAreSorted(ids) {
		t.Error("NewID() values are not monotonically increasing")
	}

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("NewID() produced duplicate %s", id)
		}
		seen[id] = true
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Error("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenIssueVerify(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour, 24*time.Hour)
	id := Identity{UserID: "user-1", Username: "alice"}

	for _, kind := range []TokenKind{KindAccess, KindRefresh, KindSession} {
		t.Run(string(kind), func(t *testing.T) {
			token, err := m.Issue(id, kind)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			got, err := m.Verify(token, kind)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != id {
				t.Errorf("Verify() = %+v, want %+v", got, id)
			}
		})
	}
}

func TestTokenRejections(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour, time.Hour)
	id := Identity{UserID: "user-1", Username: "alice"}

	refresh, _ := m.Issue(id, KindRefresh)
	if _, err := m.Verify(refresh, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}

	other := NewTokenManager("another-secret-another-secret-xx", time.Minute, time.Hour, time.Hour)
	foreign, _ := other.Issue(id, KindAccess)
	if _, err := m.Verify(foreign, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with wrong signature accepted: %v", err)
	}

	if _, err := m.Verify("not-a-jwt", KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage accepted: %v", err)
	}

	// Expired token
	past := time.Now().Add(-2 * time.Minute)
	m.now = func() time.Time { return past }
	expired, _ := m.Issue(id, KindAccess)
	m.now = time.Now
	if _, err := m.Verify(expired, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext() found identity in empty context")
	}

	ctx := WithIdentity(context.Background(), Identity{UserID: "u", Username: "bob"})
	id, ok := FromContext(ctx)
	if !ok || id.Username != "bob" {
		t.Errorf("FromContext() = %+v, %v", id, ok)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
