package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer credential issued by the backend at login.
type Token struct {
	// Raw is the token exactly as issued, attached to the
	// Authorization header of every outgoing request.
	Raw string

	// ExpiresAt is the expiry carried inside the token. Zero when the
	// token carries no expiry claim.
	ExpiresAt time.Time
}

// ParseToken wraps a raw bearer token, extracting the expiry from the
// JWT "exp" claim when present. The signature is NOT verified: the
// backend is the verifier, the client only needs to know when to stop
// presenting a token. Tokens that are not JWTs are accepted with no
// expiry.
func ParseToken(raw string) Token {
	tok := Token{Raw: raw}

	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return tok
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return tok
	}

	tok.ExpiresAt = exp.Time
	return tok
}

// Expired reports whether the token's expiry has passed. A token with
// no expiry never expires.
func (t Token) Expired(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(t.ExpiresAt)
}

// Valid reports whether the token is present and unexpired.
func (t Token) Valid(now time.Time) bool {
	return t.Raw != "" && !t.Expired(now)
}
