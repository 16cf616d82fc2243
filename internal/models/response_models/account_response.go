package response_models

type AccountResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Nickname         string `json:"nickname"`
	Role             string `json:"role"`
	Age              *int   `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	Subscribe        bool   `json:"subscribe"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastJournaled    string `json:"last_journaled,omitempty"`
	StoryVisitCount  int    `json:"story_visit_count"`
	StoriesCompleted int    `json:"stories_completed"`
	LastVisited      string `json:"last_visited,omitempty"`
	Coins            int    `json:"coins"`
	ActiveTheme      string `json:"active_theme"`
	ActiveMailTheme  string `json:"active_mail_theme"`
	CreatedAt        string `json:"created_at"`
}

type AccountLoginResponse struct {
	Token       string          `json:"token"`
	ExpiresAt   string          `json:"expires_at"`
	Account     AccountResponse `json:"account"`
	CoinsEarned int             `json:"coins_earned"`
}

// VisitResponse is returned by the profile fetch, which also registers the day's visit.
type VisitResponse struct {
	Account        AccountResponse `json:"account"`
	CoinsEarned    int             `json:"coins_earned"`
	StoryCompleted bool            `json:"story_completed"`
}

type StatsResponse struct {
	Accounts int64 `json:"accounts"`
	Journals int64 `json:"journals"`
}
