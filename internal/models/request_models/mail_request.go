package request_models

type BroadcastMailRequest struct {
	Sender  string `json:"sender" binding:"omitempty,max=100"`
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}
