package metrics_fx

import (
	"go.uber.org/fx"

	"cozyminds/internal/metrics"
)

var Module = fx.Provide(metrics.New)
