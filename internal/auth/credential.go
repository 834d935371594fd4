package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the opaque bearer token. It never prints its value.
type Credential string

const redacted = "[REDACTED]"

func (c Credential) String() string {
	if c == "" {
		return ""
	}
	return redacted
}

func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// Raw returns the token as sent on the wire.
func (c Credential) Raw() string {
	return string(c)
}

// ExpiresAt decodes the exp claim without verifying the signature. It is for display only;
// ok is false when the token is not a JWT or carries no expiry.
func (c Credential) ExpiresAt() (time.Time, bool) {
	if c == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(c), claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
