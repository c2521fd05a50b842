package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/analytics"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"github.com/yuanbopang/subscription-manager/internal/nlp"
	"gorm.io/gorm"
)

// IngestResult is the outcome of an NLP-assisted creation. A non-empty
// Failure is a soft failure: no subscription was created, the message says
// why, and the partial draft is kept for client-side correction.
type IngestResult struct {
	Subscription *models.Subscription
	Draft        *nlp.Draft
	Failure      string
}

const (
	failureNoParse = "Unable to parse subscription information, please provide more details"
	failureNoCost  = "Unable to determine the monthly cost, please specify the amount"
)

type IngestService struct {
	db        *gorm.DB
	pipeline  *nlp.Pipeline
	analytics *analytics.Service
	now       func() time.Time
}

func NewIngestService(db *gorm.DB, pipeline *nlp.Pipeline, analyticsService *analytics.Service) *IngestService {
	return &IngestService{db: db, pipeline: pipeline, analytics: analyticsService, now: time.Now}
}

// FromText runs the extraction pipeline and persists the resulting draft.
// LLM unavailability is non-fatal: it surfaces as a soft failure, never as
// an error.
func (s *IngestService) FromText(ctx context.Context, userID uuid.UUID, text, imageB64 string) (*IngestResult, error) {
	draft := s.pipeline.Extract(ctx, text, imageB64)
	if draft == nil || draft.ServiceName == "" {
		return &IngestResult{Draft: draft, Failure: failureNoParse}, nil
	}
	if draft.MonthlyCost == nil {
		return &IngestResult{Draft: draft, Failure: failureNoCost}, nil
	}

	paymentDate, err := parseDate(draft.PaymentDate)
	if err != nil {
		// The pipeline guarantees a parseable date; treat a violation as a
		// parse-level soft failure rather than a hard error.
		return &IngestResult{Draft: draft, Failure: failureNoParse}, nil
	}

	var created *models.Subscription
	err = s.db.Transaction(func(tx *gorm.DB) error {
		service, err := getOrCreateServiceByName(tx, draft.ServiceName, draft.ServiceCategory, "", nil)
		if err != nil {
			return err
		}

		sub := models.Subscription{
			UserID:            userID,
			ServiceID:         service.ID,
			Account:           draft.Account,
			PaymentDate:       paymentDate,
			Cost:              *draft.MonthlyCost,
			BillingCycle:      models.CycleMonthly,
			MonthlyCost:       *draft.MonthlyCost,
			IsTrial:           draft.IsTrial,
			TrialDurationDays: draft.TrialDurationDays,
		}
		if sub.IsTrial && sub.TrialDurationDays > 0 {
			start := s.now()
			end := start.AddDate(0, 0, sub.TrialDurationDays)
			sub.TrialStartDate = &start
			sub.TrialEndDate = &end
		}

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

	return &IngestResult{Subscription: created, Draft: draft}, nil
}
