package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cozyminds/internal/catalog"
	"cozyminds/internal/engagement"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	"cozyminds/pkg/utils"
)

type ShopServiceInterface interface {
	ListItems(ctx context.Context, accountID string) ([]response_models.ShopItemResponse, error)
	Purchase(ctx context.Context, accountID, itemID string) (*response_models.PurchaseResponse, error)
	Inventory(ctx context.Context, accountID string) (*response_models.InventoryResponse, error)
	ActivateTheme(ctx context.Context, accountID, itemID string) (*response_models.InventoryResponse, error)
	ActivateMailTheme(ctx context.Context, accountID, itemID string) (*response_models.InventoryResponse, error)
	// CanUseJournalTheme reports whether the account may decorate a journal with themeID.
	CanUseJournalTheme(ctx context.Context, accountID, themeID string) (bool, error)
}

type ShopService struct {
	catalog       *catalog.Catalog
	accountRepo   repositories.AccountRepository
	inventoryRepo repositories.InventoryRepository
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewShopService(
	cat *catalog.Catalog,
	accountRepo repositories.AccountRepository,
	inventoryRepo repositories.InventoryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) ShopServiceInterface {
	return &ShopService{
		catalog:       cat,
		accountRepo:   accountRepo,
		inventoryRepo: inventoryRepo,
		metrics:       m,
		logger:        logger,
	}
}

func (s *ShopService) loadAccount(ctx context.Context, accountID string) (*db_models.Account, error) {
	account, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbErr(err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (s *ShopService) loadInventory(ctx context.Context, accountID string) ([]db_models.InventoryItem, error) {
	items, err := s.inventoryRepo.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, dbErr(err)
	}
	return items, nil
}

func (s *ShopService) ListItems(ctx context.Context, accountID string) ([]response_models.ShopItemResponse, error) {
	owned, err := s.loadInventory(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entries := inventoryEntries(owned)

	items := s.catalog.Items()
	out := make([]response_models.ShopItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, response_models.ShopItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Category:    it.Category,
			Price:       it.Price,
			Description: it.Description,
			Owned:       engagement.Owns(entries, it.ID),
		})
	}
	return out, nil
}

func (s *ShopService) Purchase(ctx context.Context, accountID, itemID string) (*response_models.PurchaseResponse, error) {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		return nil, utils.ErrItemNotFound
	}

	var result engagement.PurchaseResult
	err := retryStale(ctx, s.logger, s.metrics, "purchase", func() error {
		account, err := s.loadAccount(ctx, accountID)
		if err != nil {
			return err
		}
		owned, err := s.loadInventory(ctx, accountID)
		if err != nil {
			return err
		}

		result, err = engagement.Purchase(account.Coins, inventoryEntries(owned), item.Engagement())
		if err != nil {
			return err
		}

		account.Coins = result.Coins
		line := &db_models.InventoryItem{
			AccountID: account.ID,
			ItemID:    result.Entry.ItemID,
			Category:  result.Entry.Category,
			Quantity:  result.Entry.Quantity,
		}
		return dbErr(s.inventoryRepo.ApplyPurchase(ctx, account, line))
	})

	switch {
	case errors.Is(err, engagement.ErrAlreadyOwned):
		s.metrics.Purchase(item.Category, "already_owned")
		return nil, utils.ErrAlreadyOwned
	case errors.Is(err, engagement.ErrInsufficientFunds):
		s.metrics.Purchase(item.Category, "insufficient_funds")
		return nil, utils.ErrInsufficientFunds
	case errors.Is(err, engagement.ErrInvalidPrice):
		return nil, utils.ErrItemNotFound
	case err != nil:
		s.metrics.Purchase(item.Category, "error")
		return nil, err
	}

	s.metrics.Purchase(item.Category, "ok")
	return &response_models.PurchaseResponse{
		Coins: result.Coins,
		Entry: response_models.InventoryEntryResponse{
			ItemID:   result.Entry.ItemID,
			Category: result.Entry.Category,
			Quantity: result.Entry.Quantity,
		},
	}, nil
}

func (s *ShopService) inventoryResponse(account *db_models.Account, items []db_models.InventoryItem) *response_models.InventoryResponse {
	resp := &response_models.InventoryResponse{
		Coins:           account.Coins,
		ActiveTheme:     account.ActiveTheme,
		ActiveMailTheme: account.ActiveMailTheme,
		Items:           make([]response_models.InventoryEntryResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, response_models.InventoryEntryResponse{
			ItemID:   it.ItemID,
			Category: it.Category,
			Quantity: it.Quantity,
		})
	}
	return resp
}

func (s *ShopService) Inventory(ctx context.Context, accountID string) (*response_models.InventoryResponse, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	items, err := s.loadInventory(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.inventoryResponse(account, items), nil
}

func (s *ShopService) ActivateTheme(ctx context.Context, accountID, itemID string) (*response_models.InventoryResponse, error) {
	return s.activate(ctx, accountID, itemID, db_models.DefaultTheme,
		[]string{engagement.CategoryTheme, engagement.CategoryConceptPack},
		func(a *db_models.Account, id string) { a.ActiveTheme = id })
}

func (s *ShopService) ActivateMailTheme(ctx context.Context, accountID, itemID string) (*response_models.InventoryResponse, error) {
	return s.activate(ctx, accountID, itemID, db_models.DefaultMailTheme,
		[]string{engagement.CategoryMailTheme},
		func(a *db_models.Account, id string) { a.ActiveMailTheme = id })
}

// activate sets a cosmetic slot to an owned item of one of the allowed categories. The
// default id is always allowed and resets the slot.
func (s *ShopService) activate(
	ctx context.Context,
	accountID, itemID, defaultID string,
	categories []string,
	set func(*db_models.Account, string),
) (*response_models.InventoryResponse, error) {
	if itemID != defaultID {
		item, ok := s.catalog.Find(itemID)
		if !ok || !containsString(categories, item.Category) {
			return nil, utils.ErrThemeNotOwned
		}
	}

	var resp *response_models.InventoryResponse
	err := retryStale(ctx, s.logger, s.metrics, "activate_theme", func() error {
		account, err := s.loadAccount(ctx, accountID)
		if err != nil {
			return err
		}
		items, err := s.loadInventory(ctx, accountID)
		if err != nil {
			return err
		}
		if itemID != defaultID && !engagement.Owns(inventoryEntries(items), itemID) {
			return utils.ErrThemeNotOwned
		}

		set(account, itemID)
		if err := s.accountRepo.UpdateState(ctx, account); err != nil {
			return dbErr(err)
		}
		resp = s.inventoryResponse(account, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ShopService) CanUseJournalTheme(ctx context.Context, accountID, themeID string) (bool, error) {
	if themeID == "" || themeID == db_models.DefaultTheme {
		return true, nil
	}
	item, ok := s.catalog.Find(themeID)
	if !ok || (item.Category != engagement.CategoryTheme && item.Category != engagement.CategoryConceptPack) {
		return false, nil
	}
	items, err := s.loadInventory(ctx, accountID)
	if err != nil {
		return false, err
	}
	return engagement.Owns(inventoryEntries(items), themeID), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
