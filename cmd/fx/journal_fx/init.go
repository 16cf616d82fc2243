package journal_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/metrics"
	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
)

var Module = fx.Provide(
	provideJournalRepo, provideJournalService)

func provideJournalRepo(db *gorm.DB) repositories.JournalRepository {
	return repositories.NewJournalRepository(db)
}

func provideJournalService(
	journalRepo repositories.JournalRepository,
	accountRepo repositories.AccountRepository,
	shop services.ShopServiceInterface,
	calendar services.Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) services.JournalServiceInterface {
	return services.NewJournalService(journalRepo, accountRepo, shop, calendar, m, logger.Named("journals"))
}
