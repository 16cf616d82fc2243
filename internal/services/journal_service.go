package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cozyminds/internal/engagement"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/request_models"
	"cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	"cozyminds/pkg/utils"
)

// RecentJournalLimit is how many entries the home page shows.
const RecentJournalLimit = 3

type JournalServiceInterface interface {
	// SaveJournal stores a new entry and advances the author's writing streak in one transaction.
	SaveJournal(ctx context.Context, accountID string, request request_models.SaveJournalRequest) (*response_models.SaveJournalResponse, error)
	ListJournals(ctx context.Context, accountID string, query request_models.JournalListQuery) (*response_models.JournalListResponse, error)
	RecentJournals(ctx context.Context, accountID string) ([]response_models.JournalResponse, error)
	GetJournal(ctx context.Context, accountID, journalID string) (*response_models.JournalResponse, error)
	UpdateJournal(ctx context.Context, accountID, journalID string, request request_models.UpdateJournalRequest) (*response_models.JournalResponse, error)
	DeleteJournal(ctx context.Context, accountID, journalID string) error
	DeleteCollection(ctx context.Context, accountID, name string) (*response_models.BulkEditResponse, error)
}

type JournalService struct {
	journalRepo repositories.JournalRepository
	accountRepo repositories.AccountRepository
	shop        ShopServiceInterface
	calendar    Calendar
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewJournalService(
	journalRepo repositories.JournalRepository,
	accountRepo repositories.AccountRepository,
	shop ShopServiceInterface,
	calendar Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) JournalServiceInterface {
	return &JournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		shop:        shop,
		calendar:    calendar,
		metrics:     m,
		logger:      logger,
	}
}

func (s *JournalService) checkTheme(ctx context.Context, accountID, theme string) error {
	ok, err := s.shop.CanUseJournalTheme(ctx, accountID, theme)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrThemeNotOwned
	}
	return nil
}

func (s *JournalService) SaveJournal(ctx context.Context, accountID string, request request_models.SaveJournalRequest) (*response_models.SaveJournalResponse, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" || strings.TrimSpace(request.Content) == "" || !db_models.IsValidMood(request.Mood) {
		return nil, utils.ErrValidationFailed
	}
	theme := strings.TrimSpace(request.Theme)
	if theme == "" {
		theme = db_models.DefaultTheme
	}
	if err := s.checkTheme(ctx, accountID, theme); err != nil {
		return nil, err
	}

	var (
		journal *db_models.Journal
		account *db_models.Account
		outcome engagement.StreakOutcome
	)
	err := retryStale(ctx, s.logger, s.metrics, "save_journal", func() error {
		acc, err := s.accountRepo.FindById(ctx, accountID)
		if err != nil {
			return dbErr(err)
		}
		if acc == nil {
			return utils.ErrAccountNotFound
		}

		now := s.calendar.Now()
		next, out := engagement.AdvanceStreak(streakState(acc), now, s.calendar.Location)
		applyStreakState(acc, next)

		j := &db_models.Journal{
			AccountID:   acc.ID,
			Title:       title,
			Content:     request.Content,
			Mood:        request.Mood,
			Tags:        normalizeLabels(request.Tags),
			Collections: normalizeCollections(request.Collections),
			WordCount:   wordCount(request.Content),
			Theme:       theme,
			Date:        now,
		}
		if err := s.journalRepo.CreateWithAccountState(ctx, j, acc); err != nil {
			return dbErr(err)
		}
		journal, account, outcome = j, acc, out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StreakUpdated(string(outcome))
	return &response_models.SaveJournalResponse{
		Journal: toJournalResponse(journal, s.calendar.Location),
		Streak: response_models.StreakResponse{
			CurrentStreak: account.CurrentStreak,
			LongestStreak: account.LongestStreak,
			Outcome:       string(outcome),
		},
	}, nil
}

func (s *JournalService) ListJournals(ctx context.Context, accountID string, query request_models.JournalListQuery) (*response_models.JournalListResponse, error) {
	if query.Page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}
	collection := strings.TrimSpace(query.Collection)
	if collection == db_models.AllCollection {
		collection = ""
	}

	journals, total, err := s.journalRepo.List(ctx, accountID, collection, query.Page, query.PageSize)
	if err != nil {
		return nil, dbErr(err)
	}
	collections, err := s.journalRepo.Collections(ctx, accountID)
	if err != nil {
		return nil, dbErr(err)
	}

	out := make([]response_models.JournalResponse, 0, len(journals))
	for i := range journals {
		out = append(out, toJournalResponse(&journals[i], s.calendar.Location))
	}
	return &response_models.JournalListResponse{
		Journals:    out,
		Collections: nonNil(collections),
		Total:       total,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}, nil
}

func (s *JournalService) RecentJournals(ctx context.Context, accountID string) ([]response_models.JournalResponse, error) {
	journals, err := s.journalRepo.Recent(ctx, accountID, RecentJournalLimit)
	if err != nil {
		return nil, dbErr(err)
	}
	out := make([]response_models.JournalResponse, 0, len(journals))
	for i := range journals {
		out = append(out, toJournalResponse(&journals[i], s.calendar.Location))
	}
	return out, nil
}

func (s *JournalService) find(ctx context.Context, accountID, journalID string) (*db_models.Journal, error) {
	if _, err := uuid.Parse(journalID); err != nil {
		return nil, utils.ErrJournalNotFound
	}
	journal, err := s.journalRepo.FindByID(ctx, accountID, journalID)
	if err != nil {
		return nil, dbErr(err)
	}
	if journal == nil {
		return nil, utils.ErrJournalNotFound
	}
	return journal, nil
}

func (s *JournalService) GetJournal(ctx context.Context, accountID, journalID string) (*response_models.JournalResponse, error) {
	journal, err := s.find(ctx, accountID, journalID)
	if err != nil {
		return nil, err
	}
	resp := toJournalResponse(journal, s.calendar.Location)
	return &resp, nil
}

func (s *JournalService) UpdateJournal(ctx context.Context, accountID, journalID string, request request_models.UpdateJournalRequest) (*response_models.JournalResponse, error) {
	journal, err := s.find(ctx, accountID, journalID)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			return nil, utils.ErrValidationFailed
		}
		journal.Title = title
	}
	if request.Content != nil {
		if strings.TrimSpace(*request.Content) == "" {
			return nil, utils.ErrValidationFailed
		}
		journal.Content = *request.Content
		journal.WordCount = wordCount(*request.Content)
	}
	if request.Mood != nil {
		if !db_models.IsValidMood(*request.Mood) {
			return nil, utils.ErrValidationFailed
		}
		journal.Mood = *request.Mood
	}
	if request.Tags != nil {
		journal.Tags = normalizeLabels(request.Tags)
	}
	if request.Collections != nil {
		journal.Collections = normalizeCollections(request.Collections)
	}
	if request.Theme != nil {
		theme := strings.TrimSpace(*request.Theme)
		if theme == "" {
			theme = db_models.DefaultTheme
		}
		if theme != journal.Theme {
			if err := s.checkTheme(ctx, accountID, theme); err != nil {
				return nil, err
			}
		}
		journal.Theme = theme
	}

	if err := s.journalRepo.Update(ctx, journal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrJournalNotFound
		}
		return nil, dbErr(err)
	}

	resp := toJournalResponse(journal, s.calendar.Location)
	return &resp, nil
}

func (s *JournalService) DeleteJournal(ctx context.Context, accountID, journalID string) error {
	if _, err := uuid.Parse(journalID); err != nil {
		return utils.ErrJournalNotFound
	}
	deleted, err := s.journalRepo.Delete(ctx, accountID, journalID)
	if err != nil {
		return dbErr(err)
	}
	if !deleted {
		return utils.ErrJournalNotFound
	}
	return nil
}

func (s *JournalService) DeleteCollection(ctx context.Context, accountID, name string) (*response_models.BulkEditResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrInvalidInput
	}
	if name == db_models.AllCollection {
		return nil, utils.ErrProtectedCollection
	}

	affected, err := s.journalRepo.RemoveCollection(ctx, accountID, name)
	if err != nil {
		return nil, dbErr(err)
	}
	if affected == 0 {
		return nil, utils.ErrCollectionNotFound
	}
	s.logger.Info("collection removed",
		zap.String("account_id", accountID),
		zap.String("collection", name),
		zap.Int64("journals", affected))
	return &response_models.BulkEditResponse{Name: name, Affected: affected}, nil
}
