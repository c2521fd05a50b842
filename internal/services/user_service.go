package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

// GetOrCreate upserts the user row keyed by the Auth0 subject in a single
// statement, so two concurrent first-time requests for the same subject
// cannot create duplicates. Profile fields and last_login are refreshed on
// every call.
func (s *UserService) GetOrCreate(identity auth.Identity) (*models.User, error) {
	now := s.now()
	user := models.User{
		Auth0UserID: identity.Subject,
		Email:       identity.Email,
		Name:        optional(identity.Name),
		Picture:     optional(identity.Picture),
		Nickname:    optional(identity.Nickname),
		LastLogin:   &now,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth0_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "picture", "nickname", "last_login", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// Reload to get the canonical row; on conflict the generated ID above
	// does not match the stored one.
	var out models.User
	if err := s.db.Where("auth0_user_id = ?", identity.Subject).First(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &out, nil
}

// Delete removes a user and, through the FK cascade, all their
// subscriptions.
func (s *UserService) Delete(userID uuid.UUID) error {
	return s.db.Where("id = ?", userID).Delete(&models.User{}).Error
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
