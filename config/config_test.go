package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcelsud/webhook-notifier/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("success - defaults without a config file", func(t *testing.T) {
		cfg, err := config.Load(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, config.BackendMemory, cfg.HistoryBackend)
		assert.Equal(t, 30*time.Second, cfg.DeliveryTimeout())
		assert.Equal(t, 1, cfg.DispatchParallelism)
		assert.Equal(t, 8, cfg.EventConcurrency)
		assert.Equal(t, time.RFC3339, cfg.DateFormat)
	})

	t.Run("success - file values overridden by environment", func(t *testing.T) {
		dir := t.TempDir()
		content := "PORT = \"9090\"\nDISPATCH_PARALLELISM = 4\nROOT_URL = \"https://ci.example.com\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))
		t.Setenv("PORT", "7070")

		cfg, err := config.Load(dir)

		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Port)
		assert.Equal(t, 4, cfg.DispatchParallelism)
		assert.Equal(t, "https://ci.example.com", cfg.RootURL)
	})

	t.Run("error - postgres backend without dsn", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", config.BackendPostgres)

		_, err := config.Load(t.TempDir())

		assert.ErrorContains(t, err, "POSTGRES_DSN")
	})

	t.Run("error - unknown backend", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "cassandra")

		_, err := config.Load(t.TempDir())

		assert.ErrorContains(t, err, "invalid HISTORY_BACKEND")
	})
}

func TestConfig_ProxyFor(t *testing.T) {
	cfg := config.Config{ProxyHost: "proxy.internal", ProxyPort: 3128, NoProxy: "localhost, .corp.example.com"}

	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPort int
	}{
		{"proxied", "https://hooks.slack.com/services/x", "proxy.internal", 3128},
		{"no proxy suffix", "https://ci.corp.example.com/hook", "", 0},
		{"no proxy host", "http://localhost:9000/hook", "", 0},
		{"case insensitive", "https://CI.Corp.Example.com/hook", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := cfg.ProxyFor(tt.url)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}

	t.Run("no global proxy", func(t *testing.T) {
		host, port := config.Config{}.ProxyFor("https://hooks.slack.com")
		assert.Empty(t, host)
		assert.Zero(t, port)
	})
}
