package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resp "cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	"cozyminds/pkg/utils"
)

type stubDashboardRepo struct {
	err         error
	gotStart    time.Time
	gotEnd      time.Time
	gotInterval string
}

func (s *stubDashboardRepo) CountTotalAccounts(context.Context) (int64, error) { return 12, s.err }
func (s *stubDashboardRepo) CountNewAccounts(_ context.Context, start, end time.Time) (int64, error) {
	s.gotStart, s.gotEnd = start, end
	return 3, nil
}
func (s *stubDashboardRepo) CountTotalJournals(context.Context) (int64, error) { return 40, nil }
func (s *stubDashboardRepo) CountJournalsInPeriod(context.Context, time.Time, time.Time) (int64, error) {
	return 9, nil
}
func (s *stubDashboardRepo) CountActiveWriters(context.Context, time.Time, time.Time) (int64, error) {
	return 3, nil
}
func (s *stubDashboardRepo) SumCoinsInCirculation(context.Context) (int64, error) { return 250, nil }
func (s *stubDashboardRepo) LongestStreakOverall(context.Context) (int64, error)  { return 17, nil }
func (s *stubDashboardRepo) NewUsersSeries(_ context.Context, _, _ time.Time, interval, _ string) ([]repositories.BucketSum, error) {
	s.gotInterval = interval
	return []repositories.BucketSum{
		{Bucket: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sum: 1},
		{Bucket: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Sum: 2},
	}, nil
}
func (s *stubDashboardRepo) JournalsSeries(context.Context, time.Time, time.Time, string, string) ([]repositories.BucketSum, error) {
	return nil, nil
}
func (s *stubDashboardRepo) MoodMix(context.Context, time.Time, time.Time) ([]repositories.MoodRow, error) {
	return []repositories.MoodRow{{Mood: "Happy", Count: 3}, {Mood: "Sad", Count: 1}}, nil
}
func (s *stubDashboardRepo) TopTags(context.Context, time.Time, time.Time, int) ([]repositories.TagRow, error) {
	return []repositories.TagRow{{Tag: "sea", Count: 4}}, nil
}

func TestBuildDashboard(t *testing.T) {
	repo := &stubDashboardRepo{}
	svc := &dashboardService{repo: repo, now: func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }}

	report, err := svc.BuildDashboard(context.Background(), resp.TimeRange{Interval: "fortnight"})
	require.NoError(t, err)

	assert.Equal(t, "day", repo.gotInterval)
	assert.Equal(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), repo.gotStart)
	assert.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), repo.gotEnd)

	assert.Equal(t, int64(12), report.KPIs.TotalAccounts)
	assert.Equal(t, int64(250), report.KPIs.CoinsInCirculation)
	assert.Equal(t, int64(17), report.KPIs.LongestStreak)
	assert.InDelta(t, 3.0, report.KPIs.JournalsPerWriter, 1e-9)
	assert.Equal(t, int64(3), report.NewUsers.Total)
	assert.Empty(t, report.Journals.Points)
	require.Len(t, report.MoodMix, 2)
	assert.InDelta(t, 75.0, report.MoodMix[0].Percent, 1e-9)
	assert.Equal(t, []resp.TopTag{{Tag: "sea", Count: 4}}, report.TopTags)
}

func TestBuildDashboardSwapsReversedRange(t *testing.T) {
	repo := &stubDashboardRepo{}
	svc := &dashboardService{repo: repo, now: time.Now}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.BuildDashboard(context.Background(), resp.TimeRange{Start: start, End: end, Interval: "week"})
	require.NoError(t, err)
	assert.Equal(t, end, report.Range.Start)
	assert.Equal(t, start, report.Range.End)
	assert.Equal(t, "week", repo.gotInterval)
}

func TestStats(t *testing.T) {
	svc := NewDashboardService(&stubDashboardRepo{})
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &resp.StatsResponse{Accounts: 12, Journals: 40}, stats)

	svc = NewDashboardService(&stubDashboardRepo{err: errors.New("connection reset")})
	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
}
