package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, root, body string) {
	t.Helper()
	dir := filepath.Join(root, "conf")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "global.yaml"), []byte(body), 0o644))
}

func TestLoad_DefaultsWithoutYAML(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.HTTP.ListenAddr)
	assert.Equal(t, DefaultSubmitDelay, cfg.Contact.SubmitDelay)
	assert.Equal(t, DefaultResetDelay, cfg.Contact.ResetDelay)
	assert.Equal(t, DefaultMaxSessions, cfg.Contact.MaxSessions)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.Log.Dir)
	assert.Empty(t, cfg.Site.ContentPath)
	assert.Same(t, cfg, Get())
}

func TestLoad_YAMLAndEnvOverlay(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)
	writeYAML(t, root, `
http:
  listen_addr: "127.0.0.1:9000"
site:
  owner_email: owner@example.com
  content_path: conf/content.yaml
contact:
  submit_delay: 250ms
  max_sessions: 50
log:
  level: debug
`)
	t.Setenv("FOLIO_HTTP__LISTEN_ADDR", "127.0.0.1:9100")
	t.Setenv("FOLIO_CONTACT__RESET_DELAY", "5s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.HTTP.ListenAddr, "env beats yaml")
	assert.Equal(t, "owner@example.com", cfg.Site.OwnerEmail)
	assert.Equal(t, filepath.Join(root, "conf", "content.yaml"), cfg.Site.ContentPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Contact.SubmitDelay)
	assert.Equal(t, 5*time.Second, cfg.Contact.ResetDelay)
	assert.Equal(t, 50, cfg.Contact.MaxSessions)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ValidationFailure(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)
	writeYAML(t, root, "site:\n  owner_email: not-an-email\n")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := f[ref]; ok {
		return v, nil
	}
	return "", errors.New("no such secret")
}

func TestLoad_ResolvesVaultRefs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)
	writeYAML(t, root, `
security:
  csrf_key: "vault:kv/folio#csrf_key"
contact:
  archive_dsn: "vault:kv/folio#dsn"
`)

	prev := newResolver
	t.Cleanup(func() { newResolver = prev })
	newResolver = func(context.Context) (secretResolver, error) {
		return fakeResolver{
			"vault:kv/folio#csrf_key": "key-material",
			"vault:kv/folio#dsn":      "folio:pw@tcp(db:3306)/folio",
		}, nil
	}

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key-material", cfg.Security.CSRFKey)
	assert.Equal(t, "folio:pw@tcp(db:3306)/folio", cfg.Contact.ArchiveDSN)

	red := cfg.Redacted()
	assert.Equal(t, redacted, red.Security.CSRFKey)
	assert.Equal(t, redacted, red.Contact.ArchiveDSN)
	assert.Equal(t, "key-material", cfg.Security.CSRFKey, "Redacted must not mutate")
}

func TestLoad_VaultFailureAborts(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)
	writeYAML(t, root, "security:\n  csrf_key: \"vault:kv/folio#missing\"\n")

	prev := newResolver
	t.Cleanup(func() { newResolver = prev })
	newResolver = func(context.Context) (secretResolver, error) { return fakeResolver{}, nil }

	_, err := Load(context.Background())
	assert.ErrorContains(t, err, "security.csrf_key")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "http.listen_addr", envKey("FOLIO_HTTP__LISTEN_ADDR"))
	assert.Equal(t, "log.level", envKey("FOLIO_LOG__LEVEL"))
}
