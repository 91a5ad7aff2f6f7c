package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccounts(t *testing.T) {
	t.Run("multiple pairs", func(t *testing.T) {
		accounts := parseAccounts("alice:s3cret, bob:hunter2", "admin", "admin")
		assert.Equal(t, map[string]string{"alice": "s3cret", "bob": "hunter2"}, accounts)
	})

	t.Run("malformed entries skipped", func(t *testing.T) {
		accounts := parseAccounts("nopassword, carol:pw", "admin", "admin")
		assert.Equal(t, map[string]string{"carol": "pw"}, accounts)
	})

	t.Run("empty falls back to default account", func(t *testing.T) {
		accounts := parseAccounts("", "admin", "letmein")
		assert.Equal(t, map[string]string{"admin": "letmein"}, accounts)
	})

	t.Run("password may contain colons", func(t *testing.T) {
		accounts := parseAccounts("dave:pw:with:colons", "admin", "admin")
		assert.Equal(t, map[string]string{"dave": "pw:with:colons"}, accounts)
	})
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr)
	assert.Equal(t, "survey.db", cfg.DBPath)
	assert.Equal(t, defaultCacheSize, cfg.CacheSize)
	assert.False(t, cfg.Debug)
	assert.NotEmpty(t, cfg.Accounts)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DEBUG", "True")
	t.Setenv("ADMIN_ACCOUNTS", "root:toor")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, map[string]string{"root": "toor"}, cfg.Accounts)
}

func TestParseRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := Parse()
	assert.Error(t, err)
}

func TestAdvertisedURL(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		cfg := Config{ServerURL: "http://survey.example.com", Port: 5000}
		assert.Equal(t, "http://survey.example.com", cfg.AdvertisedURL("10.0.0.2:5000"))
	})

	t.Run("request host next", func(t *testing.T) {
		cfg := Config{Port: 5000}
		assert.Equal(t, "http://10.0.0.2:5000", cfg.AdvertisedURL("10.0.0.2:5000"))
	})
}

func TestLocalURL(t *testing.T) {
	cfg := Config{Port: 8080}
	assert.Equal(t, "http://127.0.0.1:8080", cfg.LocalURL())
}
