// internal/session/session.go
//
// Folio – Visitor session cookie.
//
// Context
//   Contact form state lives on the server, one Form per visitor.  This file
//   issues and reads the cookie that ties a browser to its Form.  The value
//   is a random 128-bit id followed by a truncated HMAC of that id, base64url
//   encoded, stored in “folio_session”.  The id carries no data; losing it
//   only means starting with an empty form.
//
// Workflow
//   •  Issue is called by the page render only.  It reuses a valid cookie or
//      sets a fresh one.
//   •  Current is what every form endpoint calls.  It accepts only values
//      this process (or one sharing the key) signed, so clients cannot mint
//      sessions, and with them server-side forms, without loading the page.
//
//------------------------------------------------------------------------------

package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

const (
	CookieName = "folio_session"

	// MinKeyBytes is the shortest accepted secret.
	MinKeyBytes = 32

	idBytes  = 16
	tagBytes = 16
	lifetime = 24 * time.Hour
)

// ErrShortKey is returned by NewManager for secrets under MinKeyBytes.
var ErrShortKey = errors.New("session: key must be at least 32 bytes")

// Manager issues and verifies session cookies.  Safe for concurrent use.
type Manager struct {
	key []byte
}

// NewManager returns a Manager keyed with secret.  The signing key is derived
// from secret, so the same configured key can also back CSRF tokens.
func NewManager(secret []byte) (*Manager, error) {
	if len(secret) < MinKeyBytes {
		return nil, ErrShortKey
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("folio session cookie"))
	return &Manager{key: mac.Sum(nil)}, nil
}

// Issue returns the visitor's session id, setting a fresh cookie when the
// request has none or carries one that fails verification.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request) string {
	if id, ok := m.Current(r); ok {
		return id
	}

	id := m.newID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(lifetime),
	})
	return id
}

// Current returns the id stored in the request cookie when its signature
// checks out.
func (m *Manager) Current(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || !m.valid(c.Value) {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) newID() string {
	raw := make([]byte, idBytes, idBytes+tagBytes)
	if _, err := rand.Read(raw); err != nil {
		panic("session: crypto/rand failed: " + err.Error())
	}
	raw = append(raw, m.tag(raw)...)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// valid accepts exactly the shape newID produces, signed with m's key.
func (m *Manager) valid(id string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil || len(raw) != idBytes+tagBytes {
		return false
	}
	return hmac.Equal(raw[idBytes:], m.tag(raw[:idBytes]))
}

func (m *Manager) tag(id []byte) []byte {
	mac := hmac.New(sha256.New, m.key)
	mac.Write(id)
	return mac.Sum(nil)[:tagBytes]
}
