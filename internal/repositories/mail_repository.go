package repositories

import (
	"context"
	"errors"
	"time"

	"cozyminds/internal/models/db_models"
	"cozyminds/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MailRepository interface {
	// CreateFor stores mail delivered to the given accounts.
	CreateFor(ctx context.Context, mail *db_models.Mail, accountIDs []uuid.UUID) error
	// Broadcast stores mail delivered to every account. utils.ErrNoRecipients is returned
	// and nothing is kept when there are no accounts.
	Broadcast(ctx context.Context, mail *db_models.Mail) (int64, error)
	ListForAccount(ctx context.Context, accountID string) ([]MailWithReadRow, error)
	Exists(ctx context.Context, mailID string) (bool, error)
	MarkRead(ctx context.Context, mailID, accountID string, at time.Time) (bool, error)
	// DeleteForRecipient removes one delivery and the mail itself when it was the last one.
	DeleteForRecipient(ctx context.Context, mailID, accountID string) (removed bool, collapsed bool, err error)
}

type MailWithReadRow struct {
	ID      uuid.UUID `gorm:"column:id"`
	Sender  string    `gorm:"column:sender"`
	Title   string    `gorm:"column:title"`
	Content string    `gorm:"column:content"`
	Date    time.Time `gorm:"column:date"`
	Read    bool      `gorm:"column:read"`
}

type mailRepository struct {
	db *gorm.DB
}

func NewMailRepository(db *gorm.DB) MailRepository {
	return &mailRepository{db: db}
}

func (m *mailRepository) CreateFor(ctx context.Context, mail *db_models.Mail, accountIDs []uuid.UUID) error {
	if len(accountIDs) == 0 {
		return utils.ErrNoRecipients
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Recipients").Create(mail).Error; err != nil {
			return err
		}
		recipients := make([]db_models.MailRecipient, 0, len(accountIDs))
		for _, id := range accountIDs {
			recipients = append(recipients, db_models.MailRecipient{MailID: mail.ID, AccountID: id})
		}
		return tx.Omit("Account").CreateInBatches(&recipients, 500).Error
	})
}

func (m *mailRepository) Broadcast(ctx context.Context, mail *db_models.Mail) (int64, error) {
	var delivered int64
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Recipients").Create(mail).Error; err != nil {
			return err
		}
		res := tx.Exec(
			`INSERT INTO mail_recipients (mail_id, account_id, read) SELECT ?, id, false FROM accounts`,
			mail.ID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNoRecipients
		}
		delivered = res.RowsAffected
		return nil
	})
	return delivered, err
}

func (m *mailRepository) ListForAccount(ctx context.Context, accountID string) ([]MailWithReadRow, error) {
	var rows []MailWithReadRow
	err := m.db.WithContext(ctx).
		Table("mails").
		Select("mails.id, mails.sender, mails.title, mails.content, mails.date, mail_recipients.read").
		Joins("JOIN mail_recipients ON mail_recipients.mail_id = mails.id").
		Where("mail_recipients.account_id = ?", accountID).
		Order("mails.date DESC").
		Scan(&rows).Error
	return rows, err
}

func (m *mailRepository) Exists(ctx context.Context, mailID string) (bool, error) {
	var mail db_models.Mail
	err := m.db.WithContext(ctx).Select("id").First(&mail, "id = ?", mailID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *mailRepository) MarkRead(ctx context.Context, mailID, accountID string, at time.Time) (bool, error) {
	res := m.db.WithContext(ctx).
		Model(&db_models.MailRecipient{}).
		Where("mail_id = ? AND account_id = ?", mailID, accountID).
		Updates(map[string]interface{}{"read": true, "read_at": at})
	return res.RowsAffected > 0, res.Error
}

func (m *mailRepository) DeleteForRecipient(ctx context.Context, mailID, accountID string) (bool, bool, error) {
	var removed, collapsed bool
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("mail_id = ? AND account_id = ?", mailID, accountID).Delete(&db_models.MailRecipient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		var remaining int64
		if err := tx.Model(&db_models.MailRecipient{}).Where("mail_id = ?", mailID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		if err := tx.Where("id = ?", mailID).Delete(&db_models.Mail{}).Error; err != nil {
			return err
		}
		collapsed = true
		return nil
	})
	return removed, collapsed, err
}

// deleteOrphanMails drops every mail that has no recipient row left.
func deleteOrphanMails(tx *gorm.DB) error {
	return tx.Exec(`DELETE FROM mails WHERE NOT EXISTS (SELECT 1 FROM mail_recipients r WHERE r.mail_id = mails.id)`).Error
}
