package response_models

type ShopItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
	Owned       bool   `json:"owned"`
}

type InventoryEntryResponse struct {
	ItemID   string `json:"item_id"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type PurchaseResponse struct {
	Coins int                    `json:"coins"`
	Entry InventoryEntryResponse `json:"entry"`
}

type InventoryResponse struct {
	Coins           int                      `json:"coins"`
	ActiveTheme     string                   `json:"active_theme"`
	ActiveMailTheme string                   `json:"active_mail_theme"`
	Items           []InventoryEntryResponse `json:"items"`
}
