package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"cozyminds/internal/engagement"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/response_models"
	"cozyminds/pkg/utils"
)

// maxStaleAttempts bounds how often a service reloads and recomputes after losing a
// version race.
const maxStaleAttempts = 3

// Calendar decides which calendar day a moment belongs to.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Location: loc, Now: time.Now}
}

// retryStale runs fn until it stops failing with utils.ErrStaleWrite or attempts run out.
func retryStale(ctx context.Context, logger *zap.Logger, m *metrics.Metrics, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxStaleAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if !errors.Is(err, utils.ErrStaleWrite) {
			return err
		}
		m.StaleRetry(op)
		logger.Debug("stale account write, retrying", zap.String("operation", op), zap.Int("attempt", attempt))
	}
	return err
}

// dbErr keeps service sentinels intact and wraps everything else as a database error.
func dbErr(err error) error {
	if err == nil {
		return nil
	}
	for _, keep := range []error{utils.ErrStaleWrite, utils.ErrAccountNotFound, utils.ErrNoRecipients, utils.ErrEmailAlreadyExists, context.Canceled, context.DeadlineExceeded} {
		if errors.Is(err, keep) {
			return err
		}
	}
	return errors.Join(utils.ErrDatabaseError, err)
}

func visitState(a *db_models.Account) engagement.VisitState {
	return engagement.VisitState{
		StoryVisitCount:  a.StoryVisitCount,
		StoriesCompleted: a.StoriesCompleted,
		Coins:            a.Coins,
		LastVisited:      a.LastVisited,
	}
}

func applyVisitState(a *db_models.Account, s engagement.VisitState) {
	a.StoryVisitCount = s.StoryVisitCount
	a.StoriesCompleted = s.StoriesCompleted
	a.Coins = s.Coins
	a.LastVisited = s.LastVisited
}

func streakState(a *db_models.Account) engagement.StreakState {
	return engagement.StreakState{
		CurrentStreak: a.CurrentStreak,
		LongestStreak: a.LongestStreak,
		LastJournaled: a.LastJournaled,
	}
}

func applyStreakState(a *db_models.Account, s engagement.StreakState) {
	a.CurrentStreak = s.CurrentStreak
	a.LongestStreak = s.LongestStreak
	a.LastJournaled = s.LastJournaled
}

func inventoryEntries(items []db_models.InventoryItem) []engagement.InventoryEntry {
	out := make([]engagement.InventoryEntry, 0, len(items))
	for _, it := range items {
		out = append(out, engagement.InventoryEntry{ItemID: it.ItemID, Category: it.Category, Quantity: it.Quantity})
	}
	return out
}

func toAccountResponse(a *db_models.Account, loc *time.Location) response_models.AccountResponse {
	return response_models.AccountResponse{
		ID:               a.ID.String(),
		Email:            a.Email,
		Nickname:         a.Nickname,
		Role:             a.Role,
		Age:              a.Age,
		Gender:           a.Gender,
		Subscribe:        a.Subscribe,
		CurrentStreak:    a.CurrentStreak,
		LongestStreak:    a.LongestStreak,
		LastJournaled:    utils.FormatRFC3339Ptr(a.LastJournaled, loc),
		StoryVisitCount:  a.StoryVisitCount,
		StoriesCompleted: a.StoriesCompleted,
		LastVisited:      utils.FormatRFC3339Ptr(a.LastVisited, loc),
		Coins:            a.Coins,
		ActiveTheme:      a.ActiveTheme,
		ActiveMailTheme:  a.ActiveMailTheme,
		CreatedAt:        utils.FormatRFC3339(utils.FromUnixSeconds(a.CreatedAt, loc), loc),
	}
}

func toJournalResponse(j *db_models.Journal, loc *time.Location) response_models.JournalResponse {
	return response_models.JournalResponse{
		ID:          j.ID.String(),
		Title:       j.Title,
		Content:     j.Content,
		Mood:        j.Mood,
		Tags:        nonNil(j.Tags),
		Collections: nonNil(j.Collections),
		WordCount:   j.WordCount,
		Theme:       j.Theme,
		Date:        utils.FormatRFC3339(j.Date, loc),
		CreatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(j.CreatedAt, loc), loc),
		UpdatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(j.UpdatedAt, loc), loc),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}

// validNickname counts characters, matching the binding tags and the varchar(50) column.
func validNickname(nickname string) bool {
	n := utf8.RuneCountInString(nickname)
	return n >= 3 && n <= 50
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeLabels trims, drops empties and de-duplicates while keeping first-seen order.
func normalizeLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// normalizeCollections behaves like normalizeLabels and guarantees the All collection.
func normalizeCollections(in []string) []string {
	labels := normalizeLabels(in)
	for _, l := range labels {
		if l == db_models.AllCollection {
			return labels
		}
	}
	return append([]string{db_models.AllCollection}, labels...)
}

func wordCount(content string) int {
	return len(strings.Fields(content))
}
