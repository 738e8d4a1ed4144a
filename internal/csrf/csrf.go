// internal/csrf/csrf.go
//
// Folio – Stateless CSRF token utilities.
//
// Context
//   The contact form embeds a hidden `csrf_token` input generated at render
//   time.  The server verifies it on POST to ensure the request originated
//   from a page it rendered.  Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – keyed with the process secret.  Verifies authenticity.
//
//   Validation checks the signature and ensures the timestamp is within
//   MaxAge.  No server-side storage is needed, so several instances can share
//   one key.
//
// Workflow
//   •  New(secret)      → *Tokens; secret must be at least 32 bytes.
//   •  Generate()       → token string for the renderer.
//   •  Verify(tok)      → constant-time verify; false on any failure.
//   •  RandomKey()      → ephemeral key for development.
//
//------------------------------------------------------------------------------

package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig

	// MaxAge is the token validity window.
	MaxAge = 2 * time.Hour

	// MinKeyBytes is the shortest accepted secret.
	MinKeyBytes = 32
)

// ErrShortKey is returned by New for secrets under MinKeyBytes.
var ErrShortKey = errors.New("csrf: key must be at least 32 bytes")

// Tokens issues and verifies CSRF tokens.  Safe for concurrent use.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// New returns Tokens keyed with secret.
func New(secret []byte) (*Tokens, error) {
	if len(secret) < MinKeyBytes {
		return nil, ErrShortKey
	}
	return &Tokens{secret: secret, now: time.Now}, nil
}

// DecodeKey parses a base64url (unpadded) key as stored in configuration.
func DecodeKey(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// RandomKey returns a fresh MinKeyBytes key.  Tokens signed with it die with
// the process.
func RandomKey() ([]byte, error) {
	k := make([]byte, MinKeyBytes)
	if _, err := rand.Read(k); err != nil {
		return nil, err
	}
	return k, nil
}

// Generate creates a new token.  Call once per form render.
func (t *Tokens) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(t.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, t.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (t *Tokens) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	// Timestamp window check.
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := t.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		// Older than MaxAge, or from the future (clock skew).
		return false
	}

	return hmac.Equal(sig, t.sign(nonce, tsBytes))
}

func (t *Tokens) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
