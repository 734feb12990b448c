package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_TOKEN", "env-token")
	t.Setenv("ADAPTER_ADDRESS", "http://localhost:8081")
	t.Setenv("ADAPTER_REQUEST_TIMEOUT", "3s")
	t.Setenv("WORKERS_POLL_TIMEOUT", "25s")
	t.Setenv("WORKERS_ALLOWED_UPDATES", "message,edited_message")
	t.Setenv("WORKERS_CONSOLE_INPUT", "false")
	t.Setenv("STORAGE_DB_DSN", "postgres://u:p@localhost/bot")
	t.Setenv("STORAGE_CACHE_SIZE", "16")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "env-token", cfg.App.Token)
	assert.Equal(t, "http://localhost:8081", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 25*time.Second, cfg.Workers.PollTimeout)
	assert.Equal(t, "message,edited_message", cfg.Workers.AllowedUpdates)
	require.NotNil(t, cfg.Workers.ConsoleInput)
	assert.False(t, *cfg.Workers.ConsoleInput)
	assert.Equal(t, "postgres://u:p@localhost/bot", cfg.Storage.DB.DSN)
	assert.Equal(t, 16, cfg.Storage.CacheSize)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("WORKERS_POLL_TIMEOUT", "soon")

	err := parseEnv(&StructuredConfig{})
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-t", "flag-token",
		"-a", "https://example.org",
		"-poll-timeout", "5s",
		"-occasion-interval", "2m",
		"-allowed-updates", "none",
		"-console=false",
		"-d", "sessions.db",
		"-metrics-address", ":9090",
		"-config", "bot.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "flag-token", cfg.App.Token)
	assert.Equal(t, "https://example.org", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 5*time.Second, cfg.Workers.PollTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Workers.OccasionInterval)
	assert.Equal(t, "none", cfg.Workers.AllowedUpdates)
	require.NotNil(t, cfg.Workers.ConsoleInput)
	assert.False(t, *cfg.Workers.ConsoleInput)
	assert.Equal(t, "sessions.db", cfg.Storage.DB.DSN)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, "bot.json", cfg.JSONFilePath)
}

func TestParseFlags_ConsoleUnsetStaysNil(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Workers.ConsoleInput)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-unknown"}},
		{name: "bad duration", args: []string{"-poll-timeout", "later"}},
		{name: "bad console", args: []string{"-console=maybe"}},
		{name: "bad metrics address", args: []string{"-metrics-address", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "localhost:8080"},
		{in: "127.0.0.1:9090", want: "127.0.0.1:9090"},
		{in: ":9090", want: ":9090"},
		{in: "example.com:80", wantErr: true},
		{in: "localhost:0", wantErr: true},
		{in: "localhost", wantErr: true},
		{in: "localhost:http", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestParseJSON(t *testing.T) {
	path := writeJSON(t, `{
		"app": {"token": "json-token"},
		"adapter": {"http_address": "http://127.0.0.1:1", "request_timeout": "4s", "rate_limit": 2.5, "rate_burst": 3},
		"workers": {"poll_timeout": 1000000000, "occasion_interval": "10s", "allowed_updates": "message", "console_input": true},
		"storage": {"db": {"dsn": "file.db"}, "cache_size": 8},
		"metrics": {"address": "localhost:2112"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json-token", cfg.App.Token)
	assert.Equal(t, 4*time.Second, cfg.Adapter.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.Adapter.RateLimit, 0.0001)
	assert.Equal(t, 3, cfg.Adapter.RateBurst)
	assert.Equal(t, time.Second, cfg.Workers.PollTimeout)
	assert.Equal(t, 10*time.Second, cfg.Workers.OccasionInterval)
	require.NotNil(t, cfg.Workers.ConsoleInput)
	assert.True(t, *cfg.Workers.ConsoleInput)
	assert.Equal(t, "file.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 8, cfg.Storage.CacheSize)
	assert.Equal(t, "localhost:2112", cfg.Metrics.Address)
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = parseJSON(writeJSON(t, `{"workers": {"poll_timeout": "forever"}}`))
	assert.Error(t, err)

	_, err = parseJSON(writeJSON(t, `{"workers": {"poll_timeout": true}}`))
	assert.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}

func TestConfigBuilder_Precedence(t *testing.T) {
	t.Setenv("APP_TOKEN", "env-token")
	t.Setenv("WORKERS_POLL_TIMEOUT", "1s")
	t.Setenv("WORKERS_OCCASION_INTERVAL", "1s")
	t.Setenv("STORAGE_CACHE_SIZE", "4")

	path := writeJSON(t, `{"workers": {"occasion_interval": "3s", "console_input": false}}`)

	cfg, err := newConfigBuilder().
		withEnv().
		withFlags([]string{"-t", "flag-token", "-poll-timeout", "2s", "-occasion-interval", "2s", "-c", path}).
		withJSON().
		build()
	require.NoError(t, err)

	assert.Equal(t, "flag-token", cfg.App.Token)
	assert.Equal(t, 2*time.Second, cfg.Workers.PollTimeout)
	assert.Equal(t, 3*time.Second, cfg.Workers.OccasionInterval)
	assert.Equal(t, 4, cfg.Storage.CacheSize)
	require.NotNil(t, cfg.Workers.ConsoleInput)
	assert.False(t, *cfg.Workers.ConsoleInput)
	assert.Equal(t, path, cfg.JSONFilePath)
}

func TestConfigBuilder_CollectsErrors(t *testing.T) {
	_, err := newConfigBuilder().
		withFlags([]string{"-unknown"}).
		withJSON().
		build()
	assert.Error(t, err)
}

func TestParseAllowedUpdates(t *testing.T) {
	assert.Nil(t, ParseAllowedUpdates(""))
	assert.Nil(t, ParseAllowedUpdates("   "))

	none := ParseAllowedUpdates("none")
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.Equal(t, []string{"message", "callback_query"}, ParseAllowedUpdates(" message, ,callback_query "))
}

func TestNewClientConfig_Defaults(t *testing.T) {
	cfg := newClientConfig(&StructuredConfig{App: App{Token: " tok "}})

	assert.Equal(t, "tok", cfg.App.Token)
	assert.Equal(t, DefaultAPIAddress, cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.InDelta(t, float64(DefaultRateLimit), cfg.Adapter.RateLimit, 0.0001)
	assert.Equal(t, DefaultRateBurst, cfg.Adapter.RateBurst)
	assert.Equal(t, DefaultPollTimeout, cfg.Workers.PollTimeout)
	assert.Equal(t, DefaultOccasionInterval, cfg.Workers.OccasionInterval)
	assert.Equal(t, DefaultPollFailureDelay, cfg.Workers.PollFailureDelay)
	assert.Nil(t, cfg.Workers.AllowedUpdates)
	assert.True(t, cfg.Workers.ConsoleInput)
	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultCacheSize, cfg.Storage.CacheSize)
	assert.Empty(t, cfg.Metrics.Address)
	assert.NoError(t, cfg.validate())
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return newClientConfig(&StructuredConfig{App: App{Token: "tok"}})
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{name: "missing token", mutate: func(c *ClientConfig) { c.App.Token = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "address without host", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "http://" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero request timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, wantErr: ErrInvalidAdapterConfigs},
		{name: "negative poll timeout", mutate: func(c *ClientConfig) { c.Workers.PollTimeout = -time.Second }, wantErr: ErrInvalidWorkerConfigs},
		{name: "zero occasion interval", mutate: func(c *ClientConfig) { c.Workers.OccasionInterval = 0 }, wantErr: ErrInvalidWorkerConfigs},
		{name: "zero cache", mutate: func(c *ClientConfig) { c.Storage.CacheSize = 0 }, wantErr: ErrInvalidStorageConfigs},
		{name: "address without scheme", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "localhost:8081" }},
		{name: "zero poll timeout", mutate: func(c *ClientConfig) { c.Workers.PollTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
