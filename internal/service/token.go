package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenKind selects the TTL applied to an issued token.
type TokenKind string

const (
	// TokenKindPasswordReset tokens expire after 10 minutes.
	TokenKindPasswordReset TokenKind = "password_reset"
	// TokenKindActivation tokens expire after 24 hours.
	TokenKindActivation TokenKind = "account_activation"
)

const (
	tokenByteLength       = 64
	passwordResetTokenTTL = 10 * time.Minute
	activationTokenTTL    = 24 * time.Hour
)

// IssuedToken pairs the raw secret with its storable digest. Raw is shown to
// the user exactly once, via email; only Hash is ever persisted.
type IssuedToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// TokenIssuer generates opaque random tokens. Generation is pure: persistence
// and expiry enforcement belong to the caller.
type TokenIssuer interface {
	Issue(kind TokenKind) (IssuedToken, error)
}

type tokenIssuer struct {
	now func() time.Time
}

// NewTokenIssuer constructs a token issuer backed by the system clock.
func NewTokenIssuer() TokenIssuer {
	return &tokenIssuer{now: time.Now}
}

func (t *tokenIssuer) Issue(kind TokenKind) (IssuedToken, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return IssuedToken{}, fmt.Errorf("failed to generate token: %w", err)
	}

	var ttl time.Duration
	switch kind {
	case TokenKindPasswordReset:
		ttl = passwordResetTokenTTL
	case TokenKindActivation:
		ttl = activationTokenTTL
	default:
		return IssuedToken{}, fmt.Errorf("unknown token kind %q", kind)
	}

	raw := hex.EncodeToString(buf)

	return IssuedToken{
		Raw:       raw,
		Hash:      HashToken(raw),
		ExpiresAt: t.now().Add(ttl),
	}, nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token. A leaked
// database row therefore cannot be turned back into a working token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
