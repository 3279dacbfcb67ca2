package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAchievement is an award ledger row. The composite unique index on
// (user_id, achievement_id) is the at-most-once guarantee: concurrent
// duplicate award attempts resolve at the storage layer, not with locks.
// Rows are append-only; the engine never updates or deletes them. IsSeen
// is flipped exactly once by the read side.
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_award_user_achievement" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_award_user_achievement" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	AwardedAt     time.Time    `gorm:"not null" json:"awarded_at"`
	IsSeen        bool         `gorm:"not null;default:false" json:"is_seen"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	if ua.AwardedAt.IsZero() {
		ua.AwardedAt = time.Now()
	}
	return nil
}
