package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, 5.0, cfg.AuthRateLimitRPS)
	assert.Equal(t, 10, cfg.AuthRateLimitBurst)
	assert.Equal(t, uint32(65536), cfg.Argon2.MemoryKB)
	assert.Empty(t, cfg.ShopCatalogPath)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                  "9000",
		"LOG_LEVEL":             "debug",
		"JWT_TTL":               "15m",
		"APP_TIMEZONE":          "UTC",
		"AUTH_RATE_LIMIT_RPS":   "0.5",
		"AUTH_RATE_LIMIT_BURST": "3",
		"ARGON2_MEMORY_KB":      "1024",
		"TRUSTED_PROXIES":       "10.0.0.1, 172.16.0.0/12",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 0.5, cfg.AuthRateLimitRPS)
	assert.Equal(t, 3, cfg.AuthRateLimitBurst)
	assert.Equal(t, uint32(1024), cfg.Argon2.MemoryKB)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestFromLookupCollectsErrors(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"JWT_TTL":          "soon",
		"APP_TIMEZONE":     "Mars/Olympus_Mons",
		"ARGON2_MEMORY_KB": "abc",
		"TRUSTED_PROXIES":  "proxy.local",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TTL")
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
	assert.Contains(t, err.Error(), "ARGON2_MEMORY_KB")
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestRequireServer(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Error(t, cfg.RequireServer())

	cfg.PostgresURL = "postgres://localhost/cozy"
	cfg.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.RequireServer())

	cfg.MetricsPort = cfg.Port
	assert.ErrorContains(t, cfg.RequireServer(), "METRICS_PORT")
}
