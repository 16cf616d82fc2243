package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cozyminds/internal/models/db_models"
	"cozyminds/pkg/utils"
	"gorm.io/gorm"
)

type AccountRepository interface {
	InsertTx(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id string) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)

	// UpdateState writes the engagement, economy and theme columns of account guarded by its
	// version. It returns utils.ErrStaleWrite when another writer got there first and bumps
	// account.Version on success.
	UpdateState(ctx context.Context, account *db_models.Account) error
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetRoleByEmail(ctx context.Context, email, role string) (bool, error)

	// DeleteCascade removes the account with its journals, inventory and mail deliveries.
	// Mails left without recipients are removed too.
	DeleteCascade(ctx context.Context, id string) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) InsertTx(ctx context.Context, account *db_models.Account) error {
	return translateDuplicate(a.db.WithContext(ctx).Create(account).Error)
}

// translateDuplicate maps a unique violation on accounts (only email is unique) to its sentinel.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrEmailAlreadyExists
	}
	return err
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {

	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdateState(ctx context.Context, account *db_models.Account) error {
	return updateAccountState(a.db.WithContext(ctx), account)
}

// updateAccountState is shared with the journal and inventory repositories so that their
// transactions use the same compare-and-swap.
func updateAccountState(tx *gorm.DB, account *db_models.Account) error {
	now := time.Now().Unix()
	res := tx.Model(&db_models.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"current_streak":    account.CurrentStreak,
			"longest_streak":    account.LongestStreak,
			"last_journaled":    account.LastJournaled,
			"story_visit_count": account.StoryVisitCount,
			"stories_completed": account.StoriesCompleted,
			"last_visited":      account.LastVisited,
			"coins":             account.Coins,
			"active_theme":      account.ActiveTheme,
			"active_mail_theme": account.ActiveMailTheme,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        now,
		})
	if res.Error != nil {
		return fmt.Errorf("update account state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrStaleWrite
	}
	account.Version++
	account.UpdatedAt = now
	return nil
}

func (a *accountRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := a.db.WithContext(ctx).Model(&db_models.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translateDuplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	res := a.db.WithContext(ctx).Model(&db_models.Account{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (a *accountRepository) SetRoleByEmail(ctx context.Context, email, role string) (bool, error) {
	res := a.db.WithContext(ctx).Model(&db_models.Account{}).Where("email = ?", email).Update("role", role)
	return res.RowsAffected > 0, res.Error
}

func (a *accountRepository) DeleteCascade(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&db_models.Journal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&db_models.InventoryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&db_models.MailRecipient{}).Error; err != nil {
			return err
		}
		if err := deleteOrphanMails(tx); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&db_models.Account{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
