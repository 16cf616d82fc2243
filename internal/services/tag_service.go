package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	"cozyminds/pkg/utils"
)

type TagServiceInterface interface {
	// GetAllTags lists the distinct tags across the account's journals, sorted.
	GetAllTags(ctx context.Context, accountID string) ([]string, error)
	RemoveTag(ctx context.Context, accountID, tag string) (*response_models.BulkEditResponse, error)
}

type TagService struct {
	journalRepo repositories.JournalRepository
	logger      *zap.Logger
}

func (t *TagService) GetAllTags(ctx context.Context, accountID string) ([]string, error) {
	tags, err := t.journalRepo.Tags(ctx, accountID)
	if err != nil {
		t.logger.Error("list tags failed", zap.String("account_id", accountID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return nonNil(tags), nil
}

func (t *TagService) RemoveTag(ctx context.Context, accountID, tag string) (*response_models.BulkEditResponse, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, utils.ErrInvalidInput
	}

	affected, err := t.journalRepo.RemoveTag(ctx, accountID, tag)
	if err != nil {
		return nil, dbErr(err)
	}
	if affected == 0 {
		return nil, utils.ErrTagNotFound
	}
	return &response_models.BulkEditResponse{Name: tag, Affected: affected}, nil
}

func NewTagService(journalRepo repositories.JournalRepository, logger *zap.Logger) TagServiceInterface {
	return &TagService{
		journalRepo: journalRepo,
		logger:      logger,
	}
}
