package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"cozyminds/pkg/utils"
)

type Config struct {
	Port        string
	// MetricsPort serves /metrics on its own listener, kept off the public API port.
	MetricsPort string
	PostgresURL string
	CORSOrigin  string
	LogLevel    zapcore.Level

	// TrustedProxies lists the IPs/CIDRs whose X-Forwarded-For is believed. Empty means the
	// peer address is the client address.
	TrustedProxies []string

	JWTSecret string
	JWTTTL    time.Duration

	Location *time.Location

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	ShopCatalogPath string
	Argon2          utils.Argon2Params
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup, so tests do not have to touch the
// process environment.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port:            get("PORT", "8080"),
		MetricsPort:     get("METRICS_PORT", "9090"),
		PostgresURL:     get("POSTGRES_URL", ""),
		CORSOrigin:      get("CORS_ORIGIN", "*"),
		JWTSecret:       get("JWT_SECRET", ""),
		ShopCatalogPath: get("SHOP_CATALOG_PATH", ""),
		Argon2:          utils.DefaultArgon2Params(),
	}

	var errs []error

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	ttl, err := time.ParseDuration(get("JWT_TTL", "60m"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL: must be a positive duration"))
	}
	cfg.JWTTTL = ttl

	cfg.Location, err = utils.LoadLocation(get("APP_TIMEZONE", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE: %w", err))
	}

	cfg.AuthRateLimitRPS, err = strconv.ParseFloat(get("AUTH_RATE_LIMIT_RPS", "5"), 64)
	if err != nil || cfg.AuthRateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT_RPS: must be a positive number"))
	}

	cfg.AuthRateLimitBurst, err = strconv.Atoi(get("AUTH_RATE_LIMIT_BURST", "10"))
	if err != nil || cfg.AuthRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT_BURST: must be a positive integer"))
	}

	for _, p := range strings.Split(get("TRUSTED_PROXIES", ""), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if net.ParseIP(p) == nil {
			if _, _, cidrErr := net.ParseCIDR(p); cidrErr != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p))
				continue
			}
		}
		cfg.TrustedProxies = append(cfg.TrustedProxies, p)
	}

	memKB, err := strconv.ParseUint(get("ARGON2_MEMORY_KB", "65536"), 10, 32)
	if err != nil || memKB < 8*uint64(cfg.Argon2.Parallelism) {
		errs = append(errs, fmt.Errorf("ARGON2_MEMORY_KB: must be an integer of at least %d", 8*int(cfg.Argon2.Parallelism)))
	} else {
		cfg.Argon2.MemoryKB = uint32(memKB)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireServer checks the settings only the HTTP server needs.
func (c *Config) RequireServer() error {
	var errs []error
	if c.PostgresURL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.MetricsPort == c.Port {
		errs = append(errs, errors.New("METRICS_PORT must differ from PORT"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	return errors.Join(errs...)
}
