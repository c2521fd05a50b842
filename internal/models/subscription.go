package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing cycles accepted on a subscription. Anything else is rejected
// before the row is written.
const (
	CycleWeekly  = "weekly"
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Subscription is owned exclusively by its user. MonthlyCost is a write-time
// projection of (Cost, BillingCycle): it is normalized on every create and
// update but never recomputed on read, so a stored value stays stable between
// writes even if the normalization rules change.
type Subscription struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ServiceID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"service_id"`
	Account           string     `gorm:"size:255;not null" json:"account"`
	PaymentDate       time.Time  `gorm:"not null" json:"payment_date"`
	Cost              float64    `gorm:"not null;default:0" json:"cost"`
	BillingCycle      string     `gorm:"size:20;not null;default:'monthly'" json:"billing_cycle"`
	MonthlyCost       float64    `gorm:"not null" json:"monthly_cost"`
	IsTrial           bool       `gorm:"default:false" json:"is_trial"`
	TrialStartDate    *time.Time `json:"trial_start_date,omitempty"`
	TrialEndDate      *time.Time `json:"trial_end_date,omitempty"`
	TrialDurationDays int        `gorm:"default:0" json:"trial_duration_days"`
	AutoPay           bool       `gorm:"default:false" json:"auto_pay"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Service           Service    `gorm:"foreignKey:ServiceID" json:"service"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ValidCycle reports whether cycle is one of the supported billing cycles.
func ValidCycle(cycle string) bool {
	switch cycle {
	case CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}
