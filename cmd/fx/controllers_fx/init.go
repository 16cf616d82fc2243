package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cozyminds/internal/api"
	"cozyminds/internal/api/controllers"
	"cozyminds/internal/config"
	"cozyminds/pkg/middleware"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewJournalController),
	fx.Provide(controllers.NewTagController),
	fx.Provide(controllers.NewShopController),
	fx.Provide(controllers.NewMailController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(provideAuthLimiter),
	fx.Provide(api.NewRouter))

func provideAuthLimiter(cfg *config.Config, logger *zap.Logger) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, logger.Named("ratelimit"))
}
