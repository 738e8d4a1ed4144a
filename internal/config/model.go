// internal/config/model.go
//
// Typed configuration model for Folio.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `FOLIO_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; the `yaml:"…"` twins exist only so
//     `folio config` can print the effective tree.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      yaml:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"      yaml:"force_https"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// Site describes the portfolio owner and where its content lives.  An empty
// ContentPath serves the built-in content.
type Site struct {
	ContentPath string `koanf:"content_path" yaml:"content_path"`
	// OwnerEmail receives contact messages unless the content's
	// personal.email is set.
	OwnerEmail  string `koanf:"owner_email"  yaml:"owner_email"  validate:"required,email"`
}

// Contact tunes the contact form state machine.
type Contact struct {
	SubmitDelay     time.Duration `koanf:"submit_delay"     yaml:"submit_delay"     validate:"gte=0"`
	ResetDelay      time.Duration `koanf:"reset_delay"      yaml:"reset_delay"      validate:"gte=0"`
	DispatchTimeout time.Duration `koanf:"dispatch_timeout" yaml:"dispatch_timeout" validate:"gt=0"`
	MaxSessions     int           `koanf:"max_sessions"     yaml:"max_sessions"     validate:"gt=0"`

	// ArchiveDSN enables the MySQL archive action when non-empty.  Usually a
	// vault ref.
	ArchiveDSN string `koanf:"archive_dsn" yaml:"archive_dsn"`
}

// Security holds request-forgery keys.
type Security struct {
	// CSRFKey is base64url (unpadded), at least 32 bytes decoded.  Empty
	// means an ephemeral key per process.
	CSRFKey string `koanf:"csrf_key" yaml:"csrf_key"`
}

// Log configures the file logger.
type Log struct {
	Dir   string `koanf:"dir"   yaml:"dir"`
	Level string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// Geo points at an optional MaxMind country database.
type Geo struct {
	DBPath string `koanf:"db_path" yaml:"db_path"`
}

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string `yaml:"root"` // FOLIO_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"     yaml:"http"`
	Site     Site     `koanf:"site"     yaml:"site"`
	Contact  Contact  `koanf:"contact"  yaml:"contact"`
	Security Security `koanf:"security" yaml:"security"`
	Log      Log      `koanf:"log"      yaml:"log"`
	Geo      Geo      `koanf:"geo"      yaml:"geo"`
	Paths    Paths    `koanf:"-"        yaml:"paths"`
}

const redacted = "<redacted>"

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Security.CSRFKey != "" {
		c.Security.CSRFKey = redacted
	}
	if c.Contact.ArchiveDSN != "" {
		c.Contact.ArchiveDSN = redacted
	}
	return c
}
