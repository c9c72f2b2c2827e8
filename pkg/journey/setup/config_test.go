package setup_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/gojourney/pkg/journey/setup"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv(setup.EnvDiscordEmail, "bot@example.com")
	t.Setenv(setup.EnvDiscordPassword, "hunter2")
	t.Setenv(setup.EnvKafkaBrokers, "k1:9092, k2:9092")

	config, err := setup.NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "bot@example.com", config.DiscordEmail)
	assert.Equal(t, "hunter2", config.DiscordPassword)
	assert.Equal(t, setup.BackendMidjourney, config.ImageBackend)
	assert.Equal(t, "https://discord.com/login", config.DiscordLoginUrl)
	assert.Equal(t, "5m", config.ReplyTimeout)
	assert.Equal(t, setup.CacheNone, config.CacheBackend)
	assert.True(t, config.BrowserHeadless)
	assert.False(t, config.SeparateAttachments)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.KafkaBrokers)
}

func TestNewConfig_SeparateAttachments(t *testing.T) {
	t.Setenv(setup.EnvSeparateAttachments, "true")

	result, err := setup.Setup(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, result.SeparateAttachments)
}

func TestNewConfig_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gojourney.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
discord_midjourney_bot_channel_url: https://discord.com/channels/@me/42
reply_timeout: 90s
cache_backend: file
cache_dir: /tmp/gojourney
`), 0o600))

	t.Setenv(setup.EnvReplyTimeout, "2m")

	config, err := setup.NewConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "https://discord.com/channels/@me/42", config.DiscordChannelUrl)
	assert.Equal(t, "2m", config.ReplyTimeout)
	assert.Equal(t, setup.CacheFile, config.CacheBackend)
	assert.Equal(t, "/tmp/gojourney", config.CacheDir)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := setup.NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *setup.Config {
		return &setup.Config{
			ImageBackend:       setup.BackendMidjourney,
			ReplyTimeout:       "5m",
			PollInterval:       "500ms",
			FetchTimeout:       "5m",
			StepTimeout:        "30s",
			CacheBackend:       setup.CacheNone,
			CacheTtl:           "24h",
			PublishConcurrency: 4,
		}
	}

	tests := []struct {
		name    string
		modify  func(*setup.Config)
		wantErr string
	}{
		{name: "valid", modify: func(c *setup.Config) {}},
		{name: "unknown backend", modify: func(c *setup.Config) { c.ImageBackend = "dalle" }, wantErr: "IMAGE_BACKEND"},
		{name: "openai without key", modify: func(c *setup.Config) { c.ImageBackend = setup.BackendOpenAi }, wantErr: "OPENAI_API_KEY"},
		{name: "bad duration", modify: func(c *setup.Config) { c.ReplyTimeout = "soon" }, wantErr: "REPLY_TIMEOUT"},
		{name: "zero duration", modify: func(c *setup.Config) { c.PollInterval = "0s" }, wantErr: "POLL_INTERVAL"},
		{name: "file cache without dir", modify: func(c *setup.Config) { c.CacheBackend = setup.CacheFile }, wantErr: "CACHE_DIR"},
		{name: "redis cache without url", modify: func(c *setup.Config) { c.CacheBackend = setup.CacheRedis }, wantErr: "REDIS_URL"},
		{name: "unknown cache", modify: func(c *setup.Config) { c.CacheBackend = "disk" }, wantErr: "CACHE_BACKEND"},
		{name: "half s3 credentials", modify: func(c *setup.Config) {
			c.S3Bucket = "images"
			c.S3AccessKey = "id"
		}, wantErr: "S3_SECRET_KEY"},
		{name: "no concurrency", modify: func(c *setup.Config) { c.PublishConcurrency = 0 }, wantErr: "PUBLISH_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetup(t *testing.T) {
	t.Setenv(setup.EnvDiscordPassword, "hunter2")
	t.Setenv(setup.EnvPollInterval, "250ms")
	t.Setenv(setup.EnvPinataJwtKey, "jwt-secret")
	t.Setenv("DEBUG_HEADFUL_BROWSER", "true")

	result, err := setup.Setup(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, result.PollInterval)
	assert.Equal(t, 5*time.Minute, result.ReplyTimeout)
	assert.Equal(t, 24*time.Hour, result.CacheTtl)
	assert.False(t, result.BrowserHeadless)

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("setup", "result", result)
	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, buf.String(), "jwt-secret")
	assert.Contains(t, buf.String(), "[redacted]")
}
