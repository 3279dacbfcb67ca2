package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AchievementEventLog records one dispatcher invocation for operator
// inspection: which event fired for whom, how many candidates were looked
// at and how many awards came out of it. Append-only; a failed insert is
// logged and dropped, it never blocks the dispatch itself.
type AchievementEventLog struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	EventType  AchievementEvent `gorm:"not null;index" json:"event_type"`
	Candidates int              `gorm:"not null" json:"candidates"`
	Awarded    int              `gorm:"not null" json:"awarded"`
	Skipped    int              `gorm:"not null" json:"skipped"`
	Payload    datatypes.JSON   `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt  time.Time        `gorm:"not null;index" json:"created_at"`
}

func (AchievementEventLog) TableName() string { return "achievement_event_log" }

func (l *AchievementEventLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
