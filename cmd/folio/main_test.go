package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/folio/internal/csrf"
	"github.com/yanizio/folio/internal/portfolio"
	"github.com/yanizio/folio/internal/session"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "a b", preview("a\nb", 10))
	assert.Equal(t, "abcd…", preview("abcdefgh", 5))
}

func TestSecurityKey(t *testing.T) {
	log := zap.NewNop().Sugar()

	key, err := securityKey("", log)
	require.NoError(t, err)
	tk, err := csrf.New(key)
	require.NoError(t, err)
	tok, err := tk.Generate()
	require.NoError(t, err)
	assert.True(t, tk.Verify(tok))
	_, err = session.NewManager(key)
	assert.NoError(t, err, "the same key backs session cookies")

	enc := base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{3}, 32))
	key, err = securityKey(enc, log)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = securityKey("c2hvcnQ", log) // "short"
	assert.ErrorIs(t, err, csrf.ErrShortKey)

	_, err = securityKey("!!", log)
	assert.Error(t, err)
}

func TestOwnerEmail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core).Sugar()

	content := portfolio.Default()
	assert.Equal(t, "hello@example.com", ownerEmail(content, "", log))
	assert.Equal(t, 0, logs.Len())

	assert.Equal(t, "hello@example.com", ownerEmail(content, "ops@example.com", log))
	assert.Equal(t, 1, logs.FilterMessageSnippet("differs").Len())

	content.Personal.Email = ""
	assert.Equal(t, "ops@example.com", ownerEmail(content, "ops@example.com", log))
}

func TestConfigCommand_RedactsSecrets(t *testing.T) {
	root := t.TempDir()
	t.Setenv("FOLIO_ROOT", root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"),
		[]byte("security:\n  csrf_key: top-secret\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "listen_addr:")
	assert.Contains(t, out.String(), ":8080")
	assert.Contains(t, out.String(), "redacted")
	assert.False(t, strings.Contains(out.String(), "top-secret"))
}
