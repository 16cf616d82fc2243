package db_models

import "github.com/google/uuid"

type InventoryItem struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventory_account_item,priority:1;not null"`
	ItemID    string    `gorm:"size:64;uniqueIndex:idx_inventory_account_item,priority:2;not null"`
	Category  string    `gorm:"size:32;not null"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"`

	Account Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
