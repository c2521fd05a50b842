package dto

import (
	"time"

	"github.com/google/uuid"
)

// ServicePayload carries service details for lazy creation on first
// reference.
type ServicePayload struct {
	Name          string  `json:"name"`
	IconURL       string  `json:"icon_url"`
	IconSourceURL *string `json:"icon_source_url,omitempty"`
	Category      string  `json:"category"`
}

type CreateSubscriptionRequest struct {
	ServiceID         *uuid.UUID      `json:"service_id"`
	Service           *ServicePayload `json:"service"`
	Account           string          `json:"account"`
	PaymentDate       string          `json:"payment_date"`
	Cost              float64         `json:"cost"`
	BillingCycle      string          `json:"billing_cycle"`
	IsTrial           bool            `json:"is_trial"`
	TrialDurationDays int             `json:"trial_duration_days"`
	AutoPay           bool            `json:"auto_pay"`
}

// UpdateSubscriptionRequest has partial-field semantics: only fields present
// in the request body are applied.
type UpdateSubscriptionRequest struct {
	Account           *string  `json:"account"`
	PaymentDate       *string  `json:"payment_date"`
	Cost              *float64 `json:"cost"`
	BillingCycle      *string  `json:"billing_cycle"`
	IsTrial           *bool    `json:"is_trial"`
	TrialDurationDays *int     `json:"trial_duration_days"`
	AutoPay           *bool    `json:"auto_pay"`
}

type ServiceResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	IconURL       string    `json:"icon_url"`
	IconSourceURL *string   `json:"icon_source_url,omitempty"`
	Category      string    `json:"category"`
}

type SubscriptionResponse struct {
	ID                uuid.UUID        `json:"id"`
	ServiceID         uuid.UUID        `json:"service_id"`
	Account           string           `json:"account"`
	PaymentDate       time.Time        `json:"payment_date"`
	Cost              float64          `json:"cost"`
	BillingCycle      string           `json:"billing_cycle"`
	MonthlyCost       float64          `json:"monthly_cost"`
	IsTrial           bool             `json:"is_trial"`
	TrialStartDate    *time.Time       `json:"trial_start_date,omitempty"`
	TrialEndDate      *time.Time       `json:"trial_end_date,omitempty"`
	TrialDurationDays int              `json:"trial_duration_days"`
	AutoPay           bool             `json:"auto_pay"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Service           *ServiceResponse `json:"service,omitempty"`
}
