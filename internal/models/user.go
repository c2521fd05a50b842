package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created lazily on the first authenticated request, keyed by the
// Auth0 subject. There is no password column: identity is fully delegated.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Auth0UserID   string         `gorm:"size:255;not null;uniqueIndex" json:"auth0_user_id"`
	Email         string         `gorm:"size:255;index" json:"email"`
	Name          *string        `gorm:"size:255" json:"name,omitempty"`
	Picture       *string        `gorm:"type:text" json:"picture,omitempty"`
	Nickname      *string        `gorm:"size:255" json:"nickname,omitempty"`
	LastLogin     *time.Time     `json:"last_login,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
