package dto

import (
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

type UserProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Auth0UserID string     `json:"auth0_user_id"`
	Email       string     `json:"email"`
	Name        *string    `json:"name"`
	Picture     *string    `json:"picture"`
	Nickname    *string    `json:"nickname"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
