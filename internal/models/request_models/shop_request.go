package request_models

type PurchaseRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}
