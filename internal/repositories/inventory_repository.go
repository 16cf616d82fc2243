package repositories

import (
	"context"

	"cozyminds/internal/models/db_models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	ListForAccount(ctx context.Context, accountID string) ([]db_models.InventoryItem, error)
	// ApplyPurchase writes the debited account and the purchased inventory line together.
	// The account version guards the inventory too: every inventory write goes through here.
	ApplyPurchase(ctx context.Context, account *db_models.Account, item *db_models.InventoryItem) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListForAccount(ctx context.Context, accountID string) ([]db_models.InventoryItem, error) {
	var items []db_models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("category, item_id").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) ApplyPurchase(ctx context.Context, account *db_models.Account, item *db_models.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateAccountState(tx, account); err != nil {
			return err
		}
		return tx.Omit("Account").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(item).Error
	})
}
