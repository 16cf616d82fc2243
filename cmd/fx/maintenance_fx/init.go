package maintenance_fx

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	mem "cozyminds/pkg/memcache"
	"cozyminds/pkg/middleware"
)

const (
	denylistSweepSpec = "@every 10m"
	limiterSweepSpec  = "@every 15m"
	limiterIdle       = 15 * time.Minute
)

var Module = fx.Invoke(scheduleSweeps)

// sweeper is the part of the denylist the scheduler needs.
type sweeper interface {
	Sweep() int
}

func scheduleSweeps(lc fx.Lifecycle, denylist mem.TokenDenylist, limiter *middleware.RateLimiter, logger *zap.Logger) error {
	logger = logger.Named("maintenance")
	c := cron.New()

	if s, ok := denylist.(sweeper); ok {
		if _, err := c.AddFunc(denylistSweepSpec, func() {
			if n := s.Sweep(); n > 0 {
				logger.Debug("expired revoked tokens swept", zap.Int("count", n))
			}
		}); err != nil {
			return err
		}
	}
	if _, err := c.AddFunc(limiterSweepSpec, func() {
		if n := limiter.Cleanup(limiterIdle); n > 0 {
			logger.Debug("idle rate limiter buckets dropped", zap.Int("count", n))
		}
	}); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
