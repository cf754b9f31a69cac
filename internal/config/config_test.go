package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		APIPort:       8090,
		PostgresDB:    "cattv",
		PostgresHost:  "localhost",
		LedgerMode:    LedgerModeDB,
		DailyAmount:   100,
		FeedCost:      10,
		MaxDailyFeeds: 50,
		JWTSecret:     "secret",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.PostgresDB = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LedgerMode = "hybrid"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.FeedCost = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateChainModeRequiresChainConfig(t *testing.T) {
	cfg := validConfig()
	cfg.LedgerMode = LedgerModeChain
	assert.Error(t, cfg.Validate())
}

func TestChainEnabled(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.ChainEnabled())

	cfg.ServerPrivateKey = "ab"
	cfg.TokenAddress = "cb00"
	assert.False(t, cfg.ChainEnabled())

	cfg.FeederAddress = "cb01"
	assert.True(t, cfg.ChainEnabled())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CATTV_TEST_STR", "hello")
	assert.Equal(t, "hello", getEnv("CATTV_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("CATTV_TEST_MISSING", "fallback"))

	t.Setenv("CATTV_TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("CATTV_TEST_INT", 7))
	t.Setenv("CATTV_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("CATTV_TEST_INT", 7))

	t.Setenv("CATTV_TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("CATTV_TEST_BOOL", false))
	assert.False(t, getEnvAsBool("CATTV_TEST_BOOL_MISSING", false))
}
