package services

import (
	"context"
	"time"

	resp "cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
)

// dashboardTopTags is how many tags the admin dashboard ranks.
const dashboardTopTags = 10

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
	// Stats returns the public account and journal totals.
	Stats(ctx context.Context) (*resp.StatsResponse, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

func validInterval(interval string) bool {
	switch interval {
	case "day", "week", "month":
		return true
	}
	return false
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange, now time.Time) resp.TimeRange {
	out := r
	if !validInterval(out.Interval) {
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = now.UTC()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30) // last 30 days default
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func toSeries(rows []repositories.BucketSum) resp.CountSeries {
	series := resp.CountSeries{Points: make([]resp.SeriesPoint, 0, len(rows))}
	for _, r := range rows {
		series.Points = append(series.Points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
		series.Total += r.Sum
	}
	return series
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng, s.now())

	// ---------- Core counts ----------
	totalAccounts, err := s.repo.CountTotalAccounts(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	newAccounts, err := s.repo.CountNewAccounts(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, dbErr(err)
	}
	totalJournals, err := s.repo.CountTotalJournals(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	journalsInPeriod, err := s.repo.CountJournalsInPeriod(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, dbErr(err)
	}
	activeWriters, err := s.repo.CountActiveWriters(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, dbErr(err)
	}
	coins, err := s.repo.SumCoinsInCirculation(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	longest, err := s.repo.LongestStreakOverall(ctx)
	if err != nil {
		return nil, dbErr(err)
	}

	var perWriter float64
	if activeWriters > 0 {
		perWriter = float64(journalsInPeriod) / float64(activeWriters)
	}

	// ---------- Series ----------
	newUsersRows, err := s.repo.NewUsersSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, dbErr(err)
	}
	journalRows, err := s.repo.JournalsSeries(ctx, rng.Start, rng.End, rng.Interval, rng.Timezone)
	if err != nil {
		return nil, dbErr(err)
	}

	// ---------- Mood mix ----------
	moodRows, err := s.repo.MoodMix(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, dbErr(err)
	}
	var moodTotal float64
	for _, r := range moodRows {
		moodTotal += float64(r.Count)
	}
	moodMix := make([]resp.MoodMixItem, 0, len(moodRows))
	for _, r := range moodRows {
		var pct float64
		if moodTotal > 0 {
			pct = float64(r.Count) * 100.0 / moodTotal
		}
		moodMix = append(moodMix, resp.MoodMixItem{Mood: r.Mood, Count: r.Count, Percent: pct})
	}

	// ---------- Top tags ----------
	tagRows, err := s.repo.TopTags(ctx, rng.Start, rng.End, dashboardTopTags)
	if err != nil {
		return nil, dbErr(err)
	}
	topTags := make([]resp.TopTag, 0, len(tagRows))
	for _, r := range tagRows {
		topTags = append(topTags, resp.TopTag{Tag: r.Tag, Count: r.Count})
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs: resp.KPIBlock{
			TotalAccounts:      totalAccounts,
			NewAccounts:        newAccounts,
			TotalJournals:      totalJournals,
			JournalsInPeriod:   journalsInPeriod,
			ActiveWriters:      activeWriters,
			CoinsInCirculation: coins,
			LongestStreak:      longest,
			JournalsPerWriter:  perWriter,
		},
		NewUsers: toSeries(newUsersRows),
		Journals: toSeries(journalRows),
		MoodMix:  moodMix,
		TopTags:  topTags,
	}, nil
}

func (s *dashboardService) Stats(ctx context.Context) (*resp.StatsResponse, error) {
	accounts, err := s.repo.CountTotalAccounts(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	journals, err := s.repo.CountTotalJournals(ctx)
	if err != nil {
		return nil, dbErr(err)
	}
	return &resp.StatsResponse{Accounts: accounts, Journals: journals}, nil
}
