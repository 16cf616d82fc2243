package db_models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultTheme     = "theme_default"
	DefaultMailTheme = "mailtheme_default"
)

type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	Nickname     string `gorm:"size:50;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;not null;default:user"`
	Age          *int
	Gender       string `gorm:"size:16"`
	Subscribe    bool   `gorm:"not null;default:false"`

	CurrentStreak int        `gorm:"not null;default:0"`
	LongestStreak int        `gorm:"not null;default:0"`
	LastJournaled *time.Time `gorm:"type:timestamptz"`

	StoryVisitCount  int        `gorm:"not null;default:0"`
	StoriesCompleted int        `gorm:"not null;default:0"`
	LastVisited      *time.Time `gorm:"type:timestamptz"`

	Coins           int    `gorm:"not null;default:0;check:coins >= 0"`
	ActiveTheme     string `gorm:"size:64;not null;default:theme_default"`
	ActiveMailTheme string `gorm:"size:64;not null;default:mailtheme_default"`

	// Version is bumped on every engagement or economy write and guards them against lost updates.
	Version int64 `gorm:"not null;default:0"`
}
