package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a shared catalog entry, get-or-created by exact name the first
// time a subscription references it. The core never deletes services.
type Service struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	IconURL       string    `gorm:"type:text" json:"icon_url"`
	IconSourceURL *string   `gorm:"type:text" json:"icon_source_url,omitempty"`
	Category      string    `gorm:"size:100;not null" json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
