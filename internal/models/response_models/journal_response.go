package response_models

type JournalResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Mood        string   `json:"mood"`
	Tags        []string `json:"tags"`
	Collections []string `json:"collections"`
	WordCount   int      `json:"word_count"`
	Theme       string   `json:"theme"`
	Date        string   `json:"date"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type StreakResponse struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Outcome       string `json:"outcome"`
}

type SaveJournalResponse struct {
	Journal JournalResponse `json:"journal"`
	Streak  StreakResponse  `json:"streak"`
}

type JournalListResponse struct {
	Journals    []JournalResponse `json:"journals"`
	Collections []string          `json:"collections"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

type BulkEditResponse struct {
	Name     string `json:"name"`
	Affected int64  `json:"affected"`
}
