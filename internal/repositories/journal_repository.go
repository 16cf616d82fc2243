package repositories

import (
	"context"
	"errors"

	"cozyminds/internal/models/db_models"
	"gorm.io/gorm"
)

type JournalRepository interface {
	// CreateWithAccountState inserts journal and writes account's streak in one transaction.
	// A stale account version rolls the insert back.
	CreateWithAccountState(ctx context.Context, journal *db_models.Journal, account *db_models.Account) error
	FindByID(ctx context.Context, accountID, id string) (*db_models.Journal, error)
	List(ctx context.Context, accountID, collection string, page, pageSize int) ([]db_models.Journal, int64, error)
	Recent(ctx context.Context, accountID string, limit int) ([]db_models.Journal, error)
	Update(ctx context.Context, journal *db_models.Journal) error
	Delete(ctx context.Context, accountID, id string) (bool, error)

	Collections(ctx context.Context, accountID string) ([]string, error)
	Tags(ctx context.Context, accountID string) ([]string, error)
	RemoveCollection(ctx context.Context, accountID, name string) (int64, error)
	RemoveTag(ctx context.Context, accountID, tag string) (int64, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (j *journalRepository) CreateWithAccountState(ctx context.Context, journal *db_models.Journal, account *db_models.Account) error {
	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Account").Create(journal).Error; err != nil {
			return err
		}
		return updateAccountState(tx, account)
	})
}

func (j *journalRepository) FindByID(ctx context.Context, accountID, id string) (*db_models.Journal, error) {
	var journal db_models.Journal
	err := j.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&journal).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &journal, nil
}

func (j *journalRepository) scoped(ctx context.Context, accountID, collection string) *gorm.DB {
	q := j.db.WithContext(ctx).Model(&db_models.Journal{}).Where("account_id = ?", accountID)
	if collection != "" {
		q = q.Where("? = ANY(collections)", collection)
	}
	return q
}

func (j *journalRepository) List(ctx context.Context, accountID, collection string, page, pageSize int) ([]db_models.Journal, int64, error) {
	var total int64
	if err := j.scoped(ctx, accountID, collection).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var journals []db_models.Journal
	err := j.scoped(ctx, accountID, collection).
		Scopes(func(db *gorm.DB) *gorm.DB {
			offset := (page - 1) * pageSize
			return db.Offset(offset).Limit(pageSize)
		}).
		Order("date DESC").
		Find(&journals).Error
	if err != nil {
		return nil, 0, err
	}
	return journals, total, nil
}

func (j *journalRepository) Recent(ctx context.Context, accountID string, limit int) ([]db_models.Journal, error) {
	var journals []db_models.Journal
	err := j.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC").
		Limit(limit).
		Find(&journals).Error
	return journals, err
}

func (j *journalRepository) Update(ctx context.Context, journal *db_models.Journal) error {
	res := j.db.WithContext(ctx).
		Model(journal).
		Where("account_id = ?", journal.AccountID).
		Select("title", "content", "mood", "tags", "collections", "word_count", "theme", "updated_at").
		Updates(journal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (j *journalRepository) Delete(ctx context.Context, accountID, id string) (bool, error) {
	res := j.db.WithContext(ctx).Where("id = ? AND account_id = ?", id, accountID).Delete(&db_models.Journal{})
	return res.RowsAffected > 0, res.Error
}

func (j *journalRepository) distinctElements(ctx context.Context, column, accountID string) ([]string, error) {
	var names []string
	err := j.db.WithContext(ctx).
		Raw(`SELECT DISTINCT name FROM (SELECT unnest(`+column+`) AS name FROM journals WHERE account_id = ?) AS t ORDER BY name`, accountID).
		Scan(&names).Error
	return names, err
}

func (j *journalRepository) Collections(ctx context.Context, accountID string) ([]string, error) {
	return j.distinctElements(ctx, "collections", accountID)
}

func (j *journalRepository) Tags(ctx context.Context, accountID string) ([]string, error) {
	return j.distinctElements(ctx, "tags", accountID)
}

func (j *journalRepository) removeElement(ctx context.Context, column, accountID, value string) (int64, error) {
	res := j.db.WithContext(ctx).
		Model(&db_models.Journal{}).
		Where("account_id = ? AND ? = ANY("+column+")", accountID, value).
		Update(column, gorm.Expr("array_remove("+column+", ?)", value))
	return res.RowsAffected, res.Error
}

func (j *journalRepository) RemoveCollection(ctx context.Context, accountID, name string) (int64, error) {
	return j.removeElement(ctx, "collections", accountID, name)
}

func (j *journalRepository) RemoveTag(ctx context.Context, accountID, tag string) (int64, error) {
	return j.removeElement(ctx, "tags", accountID, tag)
}
