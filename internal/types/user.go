package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the minimal profile owned by the external user service. It exists
// here so suchary and votes have an author and the engine has a subject;
// registration, auth and profile editing live elsewhere.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"not null;uniqueIndex" json:"username"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
