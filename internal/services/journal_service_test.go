package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/request_models"
	"cozyminds/pkg/utils"
)

func entry(title string, collections ...string) request_models.SaveJournalRequest {
	return request_models.SaveJournalRequest{
		Title:       title,
		Content:     "a quiet  day\n by the sea",
		Mood:        "Reflective",
		Collections: collections,
	}
}

func TestSaveJournalStreakScenario(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := signUp(t, env, "a@example.com")

	steps := []struct {
		at          time.Time
		wantCurrent int
		wantLongest int
		wantOutcome string
	}{
		{time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC), 1, 1, "started"},
		{time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC), 2, 2, "extended"},
		{time.Date(2024, 1, 11, 21, 0, 0, 0, time.UTC), 2, 2, "unchanged"},
		{time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC), 1, 2, "started"},
	}
	for _, step := range steps {
		env.clock.Set(step.at)
		res, err := env.journals.SaveJournal(ctx, id, entry("day"))
		require.NoError(t, err)
		assert.Equal(t, step.wantCurrent, res.Streak.CurrentStreak, step.at)
		assert.Equal(t, step.wantLongest, res.Streak.LongestStreak, step.at)
		assert.Equal(t, step.wantOutcome, res.Streak.Outcome, step.at)
	}

	stored := env.account(id)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.Equal(t, 2, stored.LongestStreak)
	require.NotNil(t, stored.LastJournaled)
	assert.True(t, stored.LastJournaled.Equal(steps[3].at))
	assert.Len(t, env.store.journals, 4)
}

func TestSaveJournalNormalizesEntry(t *testing.T) {
	env := newTestEnv()
	id := signUp(t, env, "a@example.com")

	count := 99
	req := entry(" Evening ", "Travel", " ", "Travel")
	req.Tags = []string{"calm", " calm ", "", "sea"}
	req.WordCount = &count

	res, err := env.journals.SaveJournal(context.Background(), id, req)
	require.NoError(t, err)
	assert.Equal(t, "Evening", res.Journal.Title)
	assert.Equal(t, 6, res.Journal.WordCount)
	assert.Equal(t, []string{"calm", "sea"}, res.Journal.Tags)
	assert.Equal(t, []string{db_models.AllCollection, "Travel"}, res.Journal.Collections)
	assert.Equal(t, db_models.DefaultTheme, res.Journal.Theme)
}

func TestSaveJournalRejects(t *testing.T) {
	env := newTestEnv()
	id := signUp(t, env, "a@example.com")

	badMood := entry("t")
	badMood.Mood = "Ecstatic"
	unowned := entry("t")
	unowned.Theme = "theme_forest"
	unknown := entry("t")
	unknown.Theme = "theme_nowhere"
	blank := entry("   ")

	tests := []struct {
		name      string
		accountID string
		req       request_models.SaveJournalRequest
		want      error
	}{
		{"unknown mood", id, badMood, utils.ErrValidationFailed},
		{"blank title", id, blank, utils.ErrValidationFailed},
		{"theme not owned", id, unowned, utils.ErrThemeNotOwned},
		{"theme not in catalog", id, unknown, utils.ErrThemeNotOwned},
		{"missing account", "6b0c3c6e-1111-4b8e-9c55-000000000000", entry("t"), utils.ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.journals.SaveJournal(context.Background(), tt.accountID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, env.store.journals)
}

func TestSaveJournalWithOwnedTheme(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := signUp(t, env, "a@example.com")
	env.setCoins(id, 100)

	_, err := env.shop.Purchase(ctx, id, "theme_forest")
	require.NoError(t, err)

	req := entry("t")
	req.Theme = "theme_forest"
	res, err := env.journals.SaveJournal(ctx, id, req)
	require.NoError(t, err)
	assert.Equal(t, "theme_forest", res.Journal.Theme)
}

func TestSaveJournalRetriesStaleAccount(t *testing.T) {
	env := newTestEnv()
	id := signUp(t, env, "a@example.com")
	env.store.interfere = func(a *db_models.Account) { a.Coins = 42 }

	res, err := env.journals.SaveJournal(context.Background(), id, entry("t"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Len(t, env.store.journals, 1)
	assert.Equal(t, 42, env.account(id).Coins)
}

func TestListJournalsByCollection(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := signUp(t, env, "a@example.com")
	other := signUp(t, env, "b@example.com")

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, cols := range [][]string{{"Work"}, {"Travel"}, {"Work", "Travel"}, nil} {
		env.clock.Set(base.Add(time.Duration(i) * time.Hour))
		_, err := env.journals.SaveJournal(ctx, id, entry("j", cols...))
		require.NoError(t, err)
	}
	_, err := env.journals.SaveJournal(ctx, other, entry("theirs", "Work"))
	require.NoError(t, err)

	all, err := env.journals.ListJournals(ctx, id, request_models.JournalListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, []string{db_models.AllCollection, "Travel", "Work"}, all.Collections)

	work, err := env.journals.ListJournals(ctx, id, request_models.JournalListQuery{Collection: "Work", Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), work.Total)
	require.Len(t, work.Journals, 1)
	assert.Equal(t, []string{db_models.AllCollection, "Work", "Travel"}, work.Journals[0].Collections)

	_, err = env.journals.ListJournals(ctx, id, request_models.JournalListQuery{Page: 0, PageSize: 10})
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
	_, err = env.journals.ListJournals(ctx, id, request_models.JournalListQuery{Page: 1, PageSize: 101})
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)

	recent, err := env.journals.RecentJournals(ctx, id)
	require.NoError(t, err)
	assert.Len(t, recent, RecentJournalLimit)
}

func TestJournalOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := signUp(t, env, "a@example.com")
	stranger := signUp(t, env, "b@example.com")

	saved, err := env.journals.SaveJournal(ctx, owner, entry("mine"))
	require.NoError(t, err)
	jid := saved.Journal.ID

	_, err = env.journals.GetJournal(ctx, stranger, jid)
	assert.ErrorIs(t, err, utils.ErrJournalNotFound)
	assert.ErrorIs(t, env.journals.DeleteJournal(ctx, stranger, jid), utils.ErrJournalNotFound)
	_, err = env.journals.GetJournal(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrJournalNotFound)

	content := "only three words"
	mood := "Happy"
	updated, err := env.journals.UpdateJournal(ctx, owner, jid, request_models.UpdateJournalRequest{Content: &content, Mood: &mood})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.WordCount)
	assert.Equal(t, "Happy", updated.Mood)
	assert.Equal(t, "mine", updated.Title)

	bad := "Grumpy"
	_, err = env.journals.UpdateJournal(ctx, owner, jid, request_models.UpdateJournalRequest{Mood: &bad})
	assert.ErrorIs(t, err, utils.ErrValidationFailed)

	require.NoError(t, env.journals.DeleteJournal(ctx, owner, jid))
	_, err = env.journals.GetJournal(ctx, owner, jid)
	assert.ErrorIs(t, err, utils.ErrJournalNotFound)
}

func TestDeleteCollection(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := signUp(t, env, "a@example.com")

	for _, cols := range [][]string{{"Work"}, {"Work", "Travel"}, {"Travel"}} {
		_, err := env.journals.SaveJournal(ctx, id, entry("j", cols...))
		require.NoError(t, err)
	}

	_, err := env.journals.DeleteCollection(ctx, id, db_models.AllCollection)
	assert.ErrorIs(t, err, utils.ErrProtectedCollection)

	res, err := env.journals.DeleteCollection(ctx, id, "Work")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	_, err = env.journals.DeleteCollection(ctx, id, "Work")
	assert.ErrorIs(t, err, utils.ErrCollectionNotFound)

	list, err := env.journals.ListJournals(ctx, id, request_models.JournalListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{db_models.AllCollection, "Travel"}, list.Collections)
	for _, j := range list.Journals {
		assert.Contains(t, j.Collections, db_models.AllCollection)
	}
}

func TestTags(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := signUp(t, env, "a@example.com")

	for _, tags := range [][]string{{"sea", "calm"}, {"calm"}, {"work"}} {
		req := entry("j")
		req.Tags = tags
		_, err := env.journals.SaveJournal(ctx, id, req)
		require.NoError(t, err)
	}

	tags, err := env.tags.GetAllTags(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"calm", "sea", "work"}, tags)

	res, err := env.tags.RemoveTag(ctx, id, "calm")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)

	_, err = env.tags.RemoveTag(ctx, id, "calm")
	assert.ErrorIs(t, err, utils.ErrTagNotFound)

	tags, err = env.tags.GetAllTags(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"sea", "work"}, tags)
}
