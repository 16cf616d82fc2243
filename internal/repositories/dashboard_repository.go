package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "cozyminds/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountTotalJournals(ctx context.Context) (int64, error)
	CountJournalsInPeriod(ctx context.Context, start, end time.Time) (int64, error)
	CountActiveWriters(ctx context.Context, start, end time.Time) (int64, error)
	SumCoinsInCirculation(ctx context.Context) (int64, error)
	LongestStreakOverall(ctx context.Context) (int64, error)

	// Time series
	NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)
	JournalsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error)

	// Mood mix within the period
	MoodMix(ctx context.Context, start, end time.Time) ([]MoodRow, error)

	// Top tags within the period
	TopTags(ctx context.Context, start, end time.Time, limit int) ([]TagRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type MoodRow struct {
	Mood  string `gorm:"column:mood"`
	Count int64  `gorm:"column:count"`
}

type TagRow struct {
	Tag   string `gorm:"column:tag"`
	Count int64  `gorm:"column:count"`
}

// ---------- Helpers ----------
func dateTrunc(tz string, column string) string {
	// column is either a timestamptz or, for accounts, unix seconds wrapped in to_timestamp.
	if tz == "" {
		return "date_trunc(?, " + column + ")"
	}
	return "date_trunc(?, timezone(?, " + column + "))"
}

func bucketArgs(interval, tz string) []interface{} {
	if tz == "" {
		return []interface{}{interval}
	}
	return []interface{}{interval, tz}
}

// ---------- Counts ----------
func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalJournals(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Journal{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountJournalsInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Journal{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountActiveWriters(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Journal{}).
		Where("date BETWEEN ? AND ?", start, end).
		Distinct("account_id").
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) SumCoinsInCirculation(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&n).Error
	return n, err
}

func (r *dashboardRepository) LongestStreakOverall(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select("COALESCE(MAX(longest_streak), 0)").
		Scan(&n).Error
	return n, err
}

// ---------- Series ----------
func (r *dashboardRepository) NewUsersSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	bucket := dateTrunc(tz, "to_timestamp(created_at)")
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Select(bucket+" AS bucket, COUNT(*) AS sum", bucketArgs(interval, tz)...).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) JournalsSeries(ctx context.Context, start, end time.Time, interval, tz string) ([]BucketSum, error) {
	var rows []BucketSum
	bucket := dateTrunc(tz, "date")
	err := r.db.WithContext(ctx).
		Model(&dbm.Journal{}).
		Select(bucket+" AS bucket, COUNT(*) AS sum", bucketArgs(interval, tz)...).
		Where("date BETWEEN ? AND ?", start, end).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

// ---------- Mix ----------
func (r *dashboardRepository) MoodMix(ctx context.Context, start, end time.Time) ([]MoodRow, error) {
	var rows []MoodRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Journal{}).
		Select("mood, COUNT(*) AS count").
		Where("date BETWEEN ? AND ?", start, end).
		Group("mood").
		Order("count DESC, mood").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) TopTags(ctx context.Context, start, end time.Time, limit int) ([]TagRow, error) {
	var rows []TagRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT tag, COUNT(*) AS count
FROM (SELECT unnest(tags) AS tag FROM journals WHERE date BETWEEN ? AND ?) AS t
GROUP BY tag
ORDER BY count DESC, tag
LIMIT ?`, start, end, limit).
		Scan(&rows).Error
	return rows, err
}
