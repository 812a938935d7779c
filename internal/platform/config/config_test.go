package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CLAIMS_GATEWAY_ADDR", "")
	t.Setenv("BANKID_BASE_URL", "")
	t.Setenv("BANKID_FETCH_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://oidc.sandbox.bankid.cz", cfg.Provider.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Provider.FetchTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CLAIMS_GATEWAY_ADDR", ":9090")
	t.Setenv("BANKID_BASE_URL", "https://oidc.bankid.cz/")
	t.Setenv("BANKID_FETCH_TIMEOUT", "2500ms")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://oidc.bankid.cz", cfg.Provider.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Provider.FetchTimeout)
}

func TestFromEnvRejectsBadTimeout(t *testing.T) {
	for _, raw := range []string{"soon", "-1s", "0s"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("BANKID_FETCH_TIMEOUT", raw)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
