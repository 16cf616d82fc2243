package request_models

type SaveJournalRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Content     string   `json:"content" binding:"required"`
	Mood        string   `json:"mood" binding:"required"`
	Tags        []string `json:"tags"`
	Collections []string `json:"collections"`
	Theme       string   `json:"theme"`
	// WordCount is accepted for compatibility and recomputed server side.
	WordCount *int `json:"word_count"`
}

type UpdateJournalRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Content     *string  `json:"content" binding:"omitempty,min=1"`
	Mood        *string  `json:"mood"`
	Tags        []string `json:"tags"`
	Collections []string `json:"collections"`
	Theme       *string  `json:"theme"`
}

type JournalListQuery struct {
	Collection string
	Page       int
	PageSize   int
}
