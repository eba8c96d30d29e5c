package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  base_url: https://console.leadforge.io
database:
  url: postgres://localhost/leadforge?sslmode=disable
credits:
  signup_grant: 250
  cost_per_lead: 2
scraper:
  base_url: https://scraper.internal
  api_key: sk-test
instantly:
  api_key: inst-key
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://console.leadforge.io", cfg.Server.BaseURL)
	assert.Equal(t, "postgres://localhost/leadforge?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, int64(250), cfg.Credits.SignupGrant)
	assert.Equal(t, int64(2), cfg.Credits.CostPerLead)
	assert.Equal(t, "https://scraper.internal", cfg.Scraper.BaseURL)
	assert.True(t, cfg.Instantly.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  host: example.com\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "example.com", cfg.Server.Host)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "leadforge_session", cfg.Auth.CookieName)
	assert.Equal(t, int64(100), cfg.Credits.SignupGrant)
	assert.Equal(t, int64(1), cfg.Credits.CostPerLead)
	assert.Equal(t, 168, cfg.Invites.TTLHours)
	assert.Equal(t, "https://api.instantly.ai/api/v2", cfg.Instantly.BaseURL)
	assert.Equal(t, "https://server.smartlead.ai/api/v1", cfg.Smartlead.BaseURL)
	assert.Equal(t, 15, cfg.Worker.PollIntervalSeconds)
	assert.Equal(t, 60, cfg.Worker.MaxJobDurationMins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://ecs-host/leadforge")
	t.Setenv("SMARTLEAD_API_KEY", "sl-from-env")
	t.Setenv("VERIFIER_API_KEY", "vk-from-env")

	cfg, err := LoadFromEnv(writeConfig(t, "database:\n  url: postgres://local/leadforge\n"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://ecs-host/leadforge", cfg.Database.URL)
	assert.Equal(t, "sl-from-env", cfg.Smartlead.APIKey)
	assert.True(t, cfg.Smartlead.Enabled, "providing a key enables the integration")
	assert.True(t, cfg.Verification.Enabled)
}

func TestDurationHelpers(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
scraper:
  timeout_seconds: 45
worker:
  poll_interval_seconds: 5
  max_job_duration_mins: 30
invites:
  ttl_hours: 24
`))
	require.NoError(t, err)

	assert.Equal(t, "45s", cfg.Scraper.Timeout().String())
	assert.Equal(t, "5s", cfg.Worker.PollInterval().String())
	assert.Equal(t, "30m0s", cfg.Worker.MaxJobDuration().String())
	assert.Equal(t, "24h0m0s", cfg.Invites.TTL().String())
}
