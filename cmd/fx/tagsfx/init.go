package tagsfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
)

var Module = fx.Provide(
	provideTagsService)

func provideTagsService(journalRepo repositories.JournalRepository, logger *zap.Logger) services.TagServiceInterface {
	return services.NewTagService(journalRepo, logger.Named("tags"))
}
