package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/metrics"
	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
)

var Module = fx.Provide(provideMailRepo, provideMailService)

func provideMailRepo(db *gorm.DB) repositories.MailRepository {
	return repositories.NewMailRepository(db)
}

func provideMailService(
	mailRepo repositories.MailRepository,
	calendar services.Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) services.IMailService {
	return services.NewMailService(services.DefaultMailConfig(), mailRepo, calendar, m, logger.Named("mail"))
}
