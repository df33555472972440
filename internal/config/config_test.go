package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
)

var keyVariants = []string{
	"MIDTRANS_SERVER_KEY", "midtrans_server_key", "MIDTRANS_SERVER_KEYS", "midtransServerKey", "midtrans-server-key",
	"MIDTRANS_CLIENT_KEY", "midtrans_client_key", "MIDTRANS_CLIENT_KEYS", "midtransClientKey", "midtrans-client-key",
	"SENDGRID_API_KEY", "sendgrid_api_key", "sendgridApiKey", "sendgrid-api-key",
	"FROM_EMAIL", "from_email", "FromEmail",
	"DOWNLOAD_MODE", "DOWNLOAD_SECRET", "download_secret",
	"EVENTS_DRIVER", "EVENTS_BROKERS", "EVENTS_NATS_URL",
	"MIDTRANS_IS_PRODUCTION", "ENV",
}

// cleanEnv unsets every variable the tests depend on and restores them after.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range keyVariants {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadPath_Defaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-abc")

	cfg, err := config.LoadPath("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "SB-Mid-server-abc", cfg.Gateway.ServerKey)
	assert.True(t, cfg.Gateway.IsProduction)
	assert.Equal(t, 3, cfg.Gateway.MaxAttempts)
	assert.Equal(t, 15, cfg.Gateway.ExpiryMinutes)
	assert.Equal(t, 30*time.Second, cfg.Invoice.Timeout)
	assert.Equal(t, "noreply@kidsworksheet.store", cfg.Invoice.FromEmail)
	assert.Equal(t, "direct", cfg.Download.Mode)
	assert.Equal(t, ".pdf", cfg.Download.Extension)
	assert.Equal(t, "KWS", cfg.OrderID.Prefix)
	assert.True(t, cfg.Redelivery.Enabled)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Contains(t, cfg.HTTP.CORSOrigins, "https://kidsworksheet.store")
}

func TestLoadPath_KeyVariants(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "camel case server key",
			env:  map[string]string{"midtransServerKey": "camel", "midtrans-client-key": "client"},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "camel", cfg.Gateway.ServerKey)
				assert.Equal(t, "client", cfg.Gateway.ClientKey)
			},
		},
		{
			name: "canonical name wins",
			env:  map[string]string{"MIDTRANS_SERVER_KEY": "canonical", "midtrans_server_key": "lower"},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "canonical", cfg.Gateway.ServerKey)
			},
		},
		{
			name: "sender and provider key",
			env: map[string]string{
				"MIDTRANS_SERVER_KEYS": "plural",
				"sendgridApiKey":       "SG.key",
				"from_email":           "shop@kidsworksheet.store",
			},
			want: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "plural", cfg.Gateway.ServerKey)
				assert.Equal(t, "SG.key", cfg.Invoice.APIKey)
				assert.Equal(t, "shop@kidsworksheet.store", cfg.Invoice.FromEmail)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.LoadPath("")
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}

func TestLoadPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing server key", env: map[string]string{}},
		{name: "signed mode without secret", env: map[string]string{"MIDTRANS_SERVER_KEY": "k", "DOWNLOAD_MODE": "signed"}},
		{name: "unknown events driver", env: map[string]string{"MIDTRANS_SERVER_KEY": "k", "EVENTS_DRIVER": "redis"}},
		{name: "kafka without brokers", env: map[string]string{"MIDTRANS_SERVER_KEY": "k", "EVENTS_DRIVER": "kafka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.LoadPath("")
			require.Error(t, err)
		})
	}
}

func TestLoadPath_File(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: staging
`), 0o600))
	t.Setenv("MIDTRANS_SERVER_KEY", "from-env")

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gateway.ServerKey)

	_, err = config.LoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
