package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 2333, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "default", cfg.Detector.Lexicon)
	assert.Equal(t, 20, cfg.Detector.MinTextLength)
	assert.Equal(t, 500, cfg.Detector.PromptMaxChars)
	assert.Equal(t, 30*time.Second, cfg.Detector.RemoteTimeout)
	assert.Equal(t, "gemini", cfg.Remote.Provider)
	assert.Equal(t, defaultRemoteEndpoint, cfg.Remote.Endpoint)
	assert.True(t, cfg.Remote.AutoDetect)
	assert.Empty(t, cfg.Remote.APIKey)
	assert.False(t, cfg.Redis.Enable)
	require.NoError(t, cfg.Validate())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: Production
log_dir: /var/log/feedguard
allowed_origins: ["https://www.linkedin.com/", " "]
redis:
  enable: true
  host: cache
  db: 2
detector:
  lexicon: extended
  remote_timeout: 5s
  status_interval: 1m
  workers: 8
remote:
  api_key: " key "
  auto_detect: false
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/log/feedguard", cfg.Paths.Logs)
	assert.Equal(t, []string{"https://www.linkedin.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URLValue())
	assert.Equal(t, "extended", cfg.Detector.Lexicon)
	assert.Equal(t, 5*time.Second, cfg.Detector.RemoteTimeout)
	assert.Equal(t, time.Minute, cfg.Detector.StatusInterval)
	assert.Equal(t, 8, cfg.Detector.Workers)
	assert.Equal(t, "key", cfg.Remote.APIKey)
	assert.False(t, cfg.Remote.AutoDetect)
}

func TestRedisURLAliasEnablesRedis(t *testing.T) {
	cfg, err := Parse([]byte("redis_url: localhost:6380/1\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enable)
	assert.Equal(t, "redis://localhost:6380/1", cfg.Redis.URLValue())
}

func TestNonGeminiProviderClearsDefaultEndpoint(t *testing.T) {
	cfg, err := Parse([]byte("remote:\n  provider: OpenAI\n"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Remote.Provider)
	assert.Empty(t, cfg.Remote.Endpoint)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("prot: 1\n"))
	require.Error(t, err)
}

func TestParseRejectsBadDuration(t *testing.T) {
	_, err := Parse([]byte("detector:\n  remote_timeout: soon\n"))
	require.ErrorContains(t, err, "detector.remote_timeout")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Port = 70000
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Detector.StatusInterval = time.Millisecond
	require.Error(t, cfg.Validate())
}

func TestLoadResolvesLexiconPathAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  lexicon: lexicons/custom.yml\n"), 0o644))
	t.Setenv(EnvAPIKey, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lexicons", "custom.yml"), cfg.Detector.Lexicon)
	assert.Equal(t, "from-env", cfg.Remote.APIKey)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestResolveRelativeKeepsProfileNames(t *testing.T) {
	assert.Equal(t, "extended", ResolveRelative("extended", "/etc/feedguard"))
	assert.Equal(t, "/abs/x.yml", ResolveRelative("/abs/x.yml", "/etc/feedguard"))
	assert.Equal(t, filepath.Clean("/etc/feedguard/x.yml"), ResolveRelative("x.yml", "/etc/feedguard"))
}
