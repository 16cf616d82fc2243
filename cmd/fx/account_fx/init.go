package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/metrics"
	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
	mem "cozyminds/pkg/memcache"
	"cozyminds/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	mailService services.IMailService,
	hasher *utils.PasswordHasher,
	tokens *utils.TokenIssuer,
	denylist mem.TokenDenylist,
	calendar services.Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, mailService, hasher, tokens, denylist, calendar, m, logger.Named("accounts"))
}
