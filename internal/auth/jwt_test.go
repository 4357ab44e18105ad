package auth

import (
	"strings"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "gamer-support", time.Minute, Claims{
		UserID: "user-1",
		Email:  "n@x.com",
		Role:   "USER",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", "gamer-support", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "n@x.com" || claims.Role != "USER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject to carry the user id")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "gamer-support", -time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "gamer-support", token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "someone-else", time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", "gamer-support", token); err == nil {
		t.Fatalf("expected issuer mismatch to be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "gamer-support", time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ParseToken("secret", "gamer-support", tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewAccessToken("secret", "gamer-support", time.Minute, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", "gamer-support", token); err == nil {
		t.Fatalf("expected signature mismatch to be rejected")
	}
}

func TestRefreshTokenHasUniqueID(t *testing.T) {
	claims := Claims{UserID: "user-1", Email: "n@x.com", Role: "USER"}
	first, err := NewRefreshToken("refresh-secret", "gamer-support", time.Hour, claims)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	second, err := NewRefreshToken("refresh-secret", "gamer-support", time.Hour, claims)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	firstClaims, err := ParseRefreshToken("refresh-secret", "gamer-support", first)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	secondClaims, err := ParseRefreshToken("refresh-secret", "gamer-support", second)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if firstClaims.ID == "" || firstClaims.ID == secondClaims.ID {
		t.Fatalf("expected distinct token ids, got %q and %q", firstClaims.ID, secondClaims.ID)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	token, err := NewRefreshToken("refresh-secret", "gamer-support", time.Hour, Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("access-secret", "gamer-support", token); err == nil {
		t.Fatalf("expected refresh token to fail access verification")
	}
}
