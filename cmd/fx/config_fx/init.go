package config_fx

import (
	"go.uber.org/fx"

	"cozyminds/internal/config"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

var Module = fx.Provide(
	provideConfig, provideCalendar, provideHasher, provideTokenIssuer)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideCalendar(cfg *config.Config) services.Calendar {
	return services.NewCalendar(cfg.Location)
}

func provideHasher(cfg *config.Config) services.PasswordHasher {
	return utils.NewPasswordHasher(cfg.Argon2)
}

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}
