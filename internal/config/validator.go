// internal/config/validator.go
//
// Thin wrapper around go-playground/validator plus defaulting.
//
// Context
// -------
// `internal/config/loader.go` calls `applyDefaults` and then
// `validateStruct` immediately after it unmarshals the merged Koanf tree.
// Any validation error aborts startup, so the binary never runs with
// partial or malformed configuration.

package config

import (
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied to zero values after unmarshal.
const (
	DefaultListenAddr      = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultSubmitDelay     = 1500 * time.Millisecond
	DefaultResetDelay      = 3 * time.Second
	DefaultDispatchTimeout = 10 * time.Second
	DefaultMaxSessions     = 10000
	DefaultOwnerEmail      = "hello@example.com"
	DefaultLogLevel        = "info"
)

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}

// applyDefaults fills zero values and anchors relative paths at root.
func applyDefaults(c *Config, root string) {
	c.Paths.Root = root

	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = DefaultListenAddr
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Site.OwnerEmail == "" {
		c.Site.OwnerEmail = DefaultOwnerEmail
	}
	c.Site.ContentPath = anchor(root, c.Site.ContentPath)

	if c.Contact.SubmitDelay == 0 {
		c.Contact.SubmitDelay = DefaultSubmitDelay
	}
	if c.Contact.ResetDelay == 0 {
		c.Contact.ResetDelay = DefaultResetDelay
	}
	if c.Contact.DispatchTimeout == 0 {
		c.Contact.DispatchTimeout = DefaultDispatchTimeout
	}
	if c.Contact.MaxSessions == 0 {
		c.Contact.MaxSessions = DefaultMaxSessions
	}

	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	c.Log.Dir = anchor(root, c.Log.Dir)
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	c.Geo.DBPath = anchor(root, c.Geo.DBPath)
}

func anchor(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
