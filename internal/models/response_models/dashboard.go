package response_models

import "time"

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
	// Optional: timezone used for bucketing (defaults to UTC if empty)
	Timezone string `json:"timezone,omitempty"`
}

type KPIBlock struct {
	TotalAccounts      int64 `json:"total_accounts"`
	NewAccounts        int64 `json:"new_accounts"`
	TotalJournals      int64 `json:"total_journals"`
	JournalsInPeriod   int64 `json:"journals_in_period"`
	ActiveWriters      int64 `json:"active_writers"`
	CoinsInCirculation int64 `json:"coins_in_circulation"`
	LongestStreak      int64 `json:"longest_streak"`

	// average entries per active writer in the period
	JournalsPerWriter float64 `json:"journals_per_writer"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
	Total  int64         `json:"total"`
}

type MoodMixItem struct {
	Mood    string  `json:"mood"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type TopTag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type DashboardReport struct {
	Range    TimeRange     `json:"range"`
	KPIs     KPIBlock      `json:"kpis"`
	NewUsers CountSeries   `json:"new_users"`
	Journals CountSeries   `json:"journals"`
	MoodMix  []MoodMixItem `json:"mood_mix"`
	TopTags  []TopTag      `json:"top_tags"`
}

