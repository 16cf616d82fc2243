package shop_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/catalog"
	"cozyminds/internal/config"
	"cozyminds/internal/metrics"
	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
)

var Module = fx.Provide(
	provideCatalog, provideInventoryRepo, provideShopService)

func provideCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.ShopCatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("shop catalog loaded", zap.String("path", cfg.ShopCatalogPath), zap.Int("items", len(cat.Items())))
	return cat, nil
}

func provideInventoryRepo(db *gorm.DB) repositories.InventoryRepository {
	return repositories.NewInventoryRepository(db)
}

func provideShopService(
	cat *catalog.Catalog,
	accountRepo repositories.AccountRepository,
	inventoryRepo repositories.InventoryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) services.ShopServiceInterface {
	return services.NewShopService(cat, accountRepo, inventoryRepo, m, logger.Named("shop"))
}
