package response_models

type MailResponse struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
}

type BroadcastResponse struct {
	MailID     string `json:"mail_id"`
	Recipients int64  `json:"recipients"`
}
