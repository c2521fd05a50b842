package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/analytics"
	"github.com/yuanbopang/subscription-manager/internal/billing"
	"github.com/yuanbopang/subscription-manager/internal/dto"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"gorm.io/gorm"
)

// SubscriptionService is the orchestrator: every mutation writes through the
// repository and recomputes the owner's analytics snapshot inside the same
// transaction, so either both commit or neither does.
type SubscriptionService struct {
	db        *gorm.DB
	analytics *analytics.Service
	now       func() time.Time
}

func NewSubscriptionService(db *gorm.DB, analyticsService *analytics.Service) *SubscriptionService {
	return &SubscriptionService{db: db, analytics: analyticsService, now: time.Now}
}

func (s *SubscriptionService) List(userID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.Preload("Service").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionService) Get(userID, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Service").
		Where("id = ? AND user_id = ?", id, userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create resolves or lazily creates the service, normalizes the monthly
// cost at write time, derives trial dates, and persists subscription plus
// snapshot atomically.
func (s *SubscriptionService) Create(userID uuid.UUID, req dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	cycle := req.BillingCycle
	if cycle == "" {
		cycle = models.CycleMonthly
	}
	if !models.ValidCycle(cycle) {
		return nil, &ValidationError{Field: "billing_cycle", Reason: "must be weekly, monthly or yearly"}
	}

	monthlyCost, err := billing.MonthlyCost(req.Cost, cycle)
	if err != nil {
		return nil, &ValidationError{Field: "cost", Reason: err.Error()}
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return nil, &ValidationError{Field: "payment_date", Reason: "must be an ISO date"}
	}

	var created *models.Subscription
	err = s.db.Transaction(func(tx *gorm.DB) error {
		service, err := s.resolveService(tx, req.ServiceID, req.Service)
		if err != nil {
			return err
		}

		sub := models.Subscription{
			UserID:            userID,
			ServiceID:         service.ID,
			Account:           req.Account,
			PaymentDate:       paymentDate,
			Cost:              req.Cost,
			BillingCycle:      cycle,
			MonthlyCost:       monthlyCost,
			IsTrial:           req.IsTrial,
			TrialDurationDays: req.TrialDurationDays,
			AutoPay:           req.AutoPay,
		}
		s.deriveTrialDates(&sub)

		if err := tx.Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if _, err := s.analytics.RecomputeTx(tx, userID); err != nil {
			return err
		}

		sub.Service = *service
		created = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies partial-field semantics: only fields present in the
// request change. The stored monthly cost is re-normalized only when cost
// or billing cycle is part of the update.
func (s *SubscriptionService) Update(userID, id uuid.UUID, req dto.UpdateSubscriptionRequest) (*models.Subscription, error) {
	var updated *models.Subscription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if req.Account != nil {
			sub.Account = *req.Account
		}
		if req.PaymentDate != nil {
			d, err := parseDate(*req.PaymentDate)
			if err != nil {
				return &ValidationError{Field: "payment_date", Reason: "must be an ISO date"}
			}
			sub.PaymentDate = d
		}
		if req.Cost != nil {
			sub.Cost = *req.Cost
		}
		if req.BillingCycle != nil {
			if !models.ValidCycle(*req.BillingCycle) {
				return &ValidationError{Field: "billing_cycle", Reason: "must be weekly, monthly or yearly"}
			}
			sub.BillingCycle = *req.BillingCycle
		}
		if req.Cost != nil || req.BillingCycle != nil {
			monthlyCost, err := billing.MonthlyCost(sub.Cost, sub.BillingCycle)
			if err != nil {
				return &ValidationError{Field: "cost", Reason: err.Error()}
			}
			sub.MonthlyCost = monthlyCost
		}
		if req.AutoPay != nil {
			sub.AutoPay = *req.AutoPay
		}
		if req.IsTrial != nil {
			sub.IsTrial = *req.IsTrial
		}
		if req.TrialDurationDays != nil {
			sub.TrialDurationDays = *req.TrialDurationDays
		}
		if req.IsTrial != nil || req.TrialDurationDays != nil {
			if sub.IsTrial {
				s.deriveTrialDates(&sub)
			} else {
				sub.TrialStartDate = nil
				sub.TrialEndDate = nil
			}
		}

		sub.UpdatedAt = s.now()
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if _, err := s.analytics.RecomputeTx(tx, userID); err != nil {
			return err
		}

		if err := tx.Preload("Service").First(&sub, "id = ?", sub.ID).Error; err != nil {
			return err
		}
		updated = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete verifies ownership inside the transaction (a user-scoped DELETE),
// so a cross-user attempt surfaces as a generic not-found and cannot race a
// concurrent mutation of the same row.
func (s *SubscriptionService) Delete(userID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Subscription{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		_, err := s.analytics.RecomputeTx(tx, userID)
		return err
	})
}

// resolveService finds the service by id, or by exact name match, creating
// it lazily on first reference.
func (s *SubscriptionService) resolveService(tx *gorm.DB, serviceID *uuid.UUID, payload *dto.ServicePayload) (*models.Service, error) {
	if serviceID != nil {
		var service models.Service
		err := tx.First(&service, "id = ?", *serviceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissingService
		}
		if err != nil {
			return nil, err
		}
		return &service, nil
	}

	if payload == nil || payload.Name == "" {
		return nil, ErrMissingService
	}

	category := payload.Category
	if category == "" {
		category = "Other"
	}
	return getOrCreateServiceByName(tx, payload.Name, category, payload.IconURL, payload.IconSourceURL)
}

// getOrCreateServiceByName looks up a service by exact, case-sensitive name
// and creates it when missing.
func getOrCreateServiceByName(tx *gorm.DB, name, category, iconURL string, iconSourceURL *string) (*models.Service, error) {
	var service models.Service
	err := tx.Where("name = ?", name).First(&service).Error
	if err == nil {
		return &service, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	service = models.Service{
		Name:          name,
		IconURL:       iconURL,
		IconSourceURL: iconSourceURL,
		Category:      category,
	}
	if err := tx.Create(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &service, nil
}

// deriveTrialDates enforces the trial invariant: when a subscription is a
// trial with a positive duration, the window starts now and ends exactly
// duration days later. Otherwise both dates stay unset.
func (s *SubscriptionService) deriveTrialDates(sub *models.Subscription) {
	if sub.IsTrial && sub.TrialDurationDays > 0 {
		start := s.now()
		end := start.AddDate(0, 0, sub.TrialDurationDays)
		sub.TrialStartDate = &start
		sub.TrialEndDate = &end
	} else {
		sub.TrialStartDate = nil
		sub.TrialEndDate = nil
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
