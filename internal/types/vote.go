package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is a single user's verdict on a suchar: funny (positive) or dry
// (negative). One vote per (suchar, voter); toggling polarity is an update
// and does not re-fire achievement checks.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SucharID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_suchar_user" json:"suchar_id"`
	Suchar    *Suchar   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SucharID;references:ID" json:"suchar,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_suchar_user" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	IsFunny   bool      `gorm:"not null;default:false" json:"is_funny"`
	IsDry     bool      `gorm:"not null;default:false" json:"is_dry"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Vote) TableName() string { return "vote" }

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
