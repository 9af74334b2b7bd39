package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, 993, cfg.IMAPPort)
	assert.True(t, cfg.IMAPSecure)
	assert.Equal(t, "INBOX", cfg.MailListenerLabel)
	assert.Equal(t, "has:attachment", cfg.GmailQuery)
	assert.Equal(t, "out", filepath.Base(cfg.OutputDir))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IMAP_PORT", "143")
	t.Setenv("IMAP_SECURE", "off")
	t.Setenv("MAIL_LISTENER_AUTO_EXPORT", "no")
	t.Setenv("WATCH_DEBOUNCE_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 143, cfg.IMAPPort)
	assert.False(t, cfg.IMAPSecure)
	assert.False(t, cfg.MailListenerAutoExport)
	assert.Equal(t, 500, cfg.WatchDebounceMs)
}

func TestRequire(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Require("IMAP_HOST", "  "))
	assert.NoError(t, cfg.Require("IMAP_HOST", "mail.example.test"))
}
