package engagement

import "errors"

var (
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrInvalidPrice      = errors.New("item price must not be negative")
)

// Item categories known to the shop.
const (
	CategoryTheme       = "theme"
	CategoryBadge       = "badge"
	CategorySticker     = "sticker"
	CategoryConceptPack = "conceptpack"
	CategoryMailTheme   = "mailtheme"
)

// Item is a purchasable shop entry.
type Item struct {
	ID       string
	Name     string
	Category string
	Price    int
}

// InventoryEntry is one owned item line.
type InventoryEntry struct {
	ItemID   string
	Category string
	Quantity int
}

// PurchaseResult is the state after a successful purchase.
type PurchaseResult struct {
	Coins     int
	Entry     InventoryEntry
	Inventory []InventoryEntry
	NewEntry  bool
}

// IsOneTimePurchase reports whether at most one unit of the category may be owned.
func IsOneTimePurchase(category string) bool {
	return category == CategoryTheme || category == CategoryBadge
}

// Owns reports whether inventory holds at least one unit of itemID.
func Owns(inventory []InventoryEntry, itemID string) bool {
	for _, e := range inventory {
		if e.ItemID == itemID && e.Quantity > 0 {
			return true
		}
	}
	return false
}

// Purchase validates buying item with the given balance and inventory.
//
// The inputs are never modified; on error nothing about the account changes. On success the
// returned inventory is a fresh copy with the item appended or its quantity incremented.
func Purchase(coins int, inventory []InventoryEntry, item Item) (PurchaseResult, error) {
	if item.Price < 0 {
		return PurchaseResult{}, ErrInvalidPrice
	}
	if IsOneTimePurchase(item.Category) && Owns(inventory, item.ID) {
		return PurchaseResult{}, ErrAlreadyOwned
	}
	if coins < item.Price {
		return PurchaseResult{}, ErrInsufficientFunds
	}

	next := make([]InventoryEntry, len(inventory), len(inventory)+1)
	copy(next, inventory)

	res := PurchaseResult{Coins: coins - item.Price}
	for i := range next {
		if next[i].ItemID == item.ID {
			next[i].Quantity++
			res.Entry = next[i]
			res.Inventory = next
			return res, nil
		}
	}

	entry := InventoryEntry{ItemID: item.ID, Category: item.Category, Quantity: 1}
	res.Entry = entry
	res.Inventory = append(next, entry)
	res.NewEntry = true
	return res, nil
}
