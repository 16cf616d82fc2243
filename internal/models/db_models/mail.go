package db_models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultMailSender = "Cozy Minds Team"

type Mail struct {
	BaseModel
	Sender  string    `gorm:"size:100;not null"`
	Title   string    `gorm:"size:200;not null"`
	Content string    `gorm:"type:text;not null"`
	Date    time.Time `gorm:"type:timestamptz;index;not null"`

	Recipients []MailRecipient `gorm:"foreignKey:MailID;constraint:OnDelete:CASCADE"`
}

// MailRecipient is one delivery of a mail. A mail without recipient rows is deleted.
type MailRecipient struct {
	MailID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Read      bool      `gorm:"not null;default:false"`
	ReadAt    *time.Time

	Account Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
