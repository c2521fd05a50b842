package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalyticsSnapshot is the cached spend aggregate for one user, one row per
// user, overwritten on every recompute. It is derived state: it must always
// be reconstructible from the user's subscription set alone.
type AnalyticsSnapshot struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalMonthlyCost  float64        `gorm:"not null;default:0" json:"total_monthly_cost"`
	TotalAnnualCost   float64        `gorm:"not null;default:0" json:"total_annual_cost"`
	ServiceCount      int            `gorm:"not null;default:0" json:"service_count"`
	CategoryBreakdown datatypes.JSON `json:"category_breakdown"`
	MonthlyTrend      datatypes.JSON `json:"monthly_trend"`
	LastCalculated    *time.Time     `json:"last_calculated"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (s *AnalyticsSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
