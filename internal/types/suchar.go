package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suchar is a posted joke. Creation fires achievement checks for the author;
// edits and deletions never do.
type Suchar struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Text        string     `gorm:"not null" json:"text"`
	PublishedAt time.Time  `gorm:"not null;index" json:"published_at"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Suchar) TableName() string { return "suchar" }

func (s *Suchar) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.PublishedAt.IsZero() {
		s.PublishedAt = time.Now()
	}
	return nil
}
