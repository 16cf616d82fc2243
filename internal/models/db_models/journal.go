package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const AllCollection = "All"

var Moods = []string{"Happy", "Neutral", "Sad", "Angry", "Anxious", "Tired", "Reflective", "Excited"}

func IsValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

type Journal struct {
	BaseModel
	AccountID   uuid.UUID      `gorm:"type:uuid;index:idx_journals_account_date,priority:1;not null"`
	Title       string         `gorm:"size:200;not null"`
	Content     string         `gorm:"type:text;not null"`
	Mood        string         `gorm:"size:16;not null"`
	Tags        pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Collections pq.StringArray `gorm:"type:text[];not null;default:'{All}'"`
	WordCount   int            `gorm:"not null;default:0"`
	Theme       string         `gorm:"size:64;not null;default:theme_default"`
	Date        time.Time      `gorm:"type:timestamptz;index:idx_journals_account_date,priority:2;not null"`

	Account Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
