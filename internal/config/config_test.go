package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("OPTIONS_FILE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPPort != 3100 {
		t.Errorf("HTTPPort = %d, want %d", cfg.HTTPPort, 3100)
	}
	if cfg.OptionsFile != "./newsletter.yaml" {
		t.Errorf("OptionsFile = %q, want %q", cfg.OptionsFile, "./newsletter.yaml")
	}
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAIL_RATE_PER_SEC", "2.5")
	t.Setenv("SITE_URL", "https://example.org/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.InDelta(t, 2.5, cfg.MailRatePerSec, 0.0001)
	assert.Equal(t, "https://example.org/", cfg.SiteURL)
}

func TestConfig_ServerOptions(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RunMigrations)
}

func TestConfig_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.SMTPPort)
}

func TestOptions_Defaults(t *testing.T) {
	opts := DefaultOptions()

	assert.False(t, opts.MailtoAdmins)
	assert.False(t, opts.MailtoCustom)
	assert.False(t, opts.MailtoUsergroup)
	assert.False(t, opts.HasGroup())
	assert.Equal(t, UnsubscribeModeToken, opts.UnsubscribeMode)
	assert.NoError(t, opts.Validate())
}

func TestParseOptions(t *testing.T) {
	data := []byte(`
usergroup: 10
mailto_admins: true
mailto_custom: true
custom_emails: "a@example.org; b@example.org;"
mailto_usergroup: true
article_backend: true
newslettersubject: "New: [TITLE]"
newsletterbody: ""
unsubscribe_mode: session
`)

	opts, err := ParseOptions(data)
	require.NoError(t, err)

	assert.Equal(t, int64(10), opts.UserGroup)
	assert.True(t, opts.HasGroup())
	assert.True(t, opts.MailtoAdmins)
	assert.True(t, opts.ArticleBackend)
	assert.False(t, opts.ArticleFrontend)
	assert.Equal(t, "New: [TITLE]", opts.NewsletterSubject)
	assert.Equal(t, DefaultNewsletterBody, opts.NewsletterBody, "empty value falls back to default")
	assert.Equal(t, UnsubscribeModeSession, opts.UnsubscribeMode)
}

func TestParseOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown mode", "unsubscribe_mode: magic"},
		{"negative group", "usergroup: -1"},
		{"admin mail without addresses", "mail_unsubscribe: true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestParseOptions_BadYAML(t *testing.T) {
	_, err := ParseOptions([]byte("usergroup: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode options")
}

func TestLoadOptions_MissingFile(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestOptionsFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsletter.yaml")

	assert.False(t, OptionsFileExists(path))
	assert.False(t, OptionsFileExists(dir))

	require.NoError(t, os.WriteFile(path, []byte("usergroup: 1\n"), 0644))
	assert.True(t, OptionsFileExists(path))
}

func TestLoadOptions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsletter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mailto_custom: true\ncustom_emails: x@example.org\n"), 0644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.True(t, opts.MailtoCustom)
	assert.Equal(t, "x@example.org", opts.CustomEmails)
}

func TestSplitAddresses(t *testing.T) {
	assert.Equal(t, []string{"a@x.org", "b@x.org"}, SplitAddresses(" a@x.org ;;b@x.org; "))
	assert.Nil(t, SplitAddresses(""))
	assert.Nil(t, SplitAddresses(";;"))
}
