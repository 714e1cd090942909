package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return raw
}

func TestParseTokenReadsExpiryClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{"exp": exp.Unix(), "sub": "u1"})

	tok := ParseToken(raw)
	if !tok.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, exp)
	}
	if tok.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !tok.Expired(exp.Add(time.Second)) {
		t.Error("token should be expired after its exp claim")
	}
}

func TestParseTokenWithoutExpiryNeverExpires(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "u1"})

	tok := ParseToken(raw)
	if !tok.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", tok.ExpiresAt)
	}
	if tok.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("token without exp claim should never expire")
	}
}

func TestParseTokenToleratesOpaqueTokens(t *testing.T) {
	tok := ParseToken("not-a-jwt-at-all")
	if tok.Raw != "not-a-jwt-at-all" {
		t.Errorf("Raw = %q", tok.Raw)
	}
	if tok.Expired(time.Now()) {
		t.Error("opaque token should be treated as unexpiring")
	}
}

func TestTokenValid(t *testing.T) {
	now := time.Now()

	if (Token{}).Valid(now) {
		t.Error("empty token should not be valid")
	}
	if !(Token{Raw: "x"}).Valid(now) {
		t.Error("unexpiring token should be valid")
	}
	expired := Token{Raw: "x", ExpiresAt: now.Add(-time.Minute)}
	if expired.Valid(now) {
		t.Error("expired token should not be valid")
	}
}
