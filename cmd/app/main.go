package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cozyminds/cmd/fx/account_fx"
	"cozyminds/cmd/fx/config_fx"
	"cozyminds/cmd/fx/controllers_fx"
	"cozyminds/cmd/fx/dashboard"
	"cozyminds/cmd/fx/db_fx"
	"cozyminds/cmd/fx/journal_fx"
	"cozyminds/cmd/fx/logger_fx"
	"cozyminds/cmd/fx/mail_fx"
	"cozyminds/cmd/fx/maintenance_fx"
	"cozyminds/cmd/fx/memcache_fx"
	"cozyminds/cmd/fx/metrics_fx"
	"cozyminds/cmd/fx/shop_fx"
	"cozyminds/cmd/fx/tagsfx"
	"cozyminds/internal/config"
	"cozyminds/internal/metrics"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		shop_fx.Module,
		journal_fx.Module,
		tagsfx.Module,
		dashboard.Module,
		controllers_fx.Module,
		maintenance_fx.Module,

		fx.Invoke(StartServer),
		fx.Invoke(StartMetricsServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	serve(lc, "HTTP", ":"+cfg.Port, engine, logger)
}

// StartMetricsServer exposes Prometheus metrics on METRICS_PORT. That port is meant for the
// scraper only and must not be published next to the API.
func StartMetricsServer(lc fx.Lifecycle, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	serve(lc, "metrics", ":"+cfg.MetricsPort, r, logger)
}

func serve(lc fx.Lifecycle, name, addr string, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting "+name+" server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal(name+" server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping " + name + " server")
			return srv.Shutdown(ctx)
		},
	})
}
