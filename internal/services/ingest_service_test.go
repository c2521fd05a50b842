package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/yuanbopang/subscription-manager/internal/analytics"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"github.com/yuanbopang/subscription-manager/internal/nlp"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, prompt, imageB64 string) (string, error) {
	return s.response, s.err
}

func TestIngestPatternPathCreates(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "auth0|alice")
	analyticsService := analytics.NewService(db)
	ingest := NewIngestService(db, nlp.NewPipeline(&stubLLM{err: errors.New("should not be called")}), analyticsService)

	result, err := ingest.FromText(context.Background(), user.ID, "Netflix subscription $15.99, test@example.com", "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Failure != "" {
		t.Fatalf("unexpected failure: %q", result.Failure)
	}
	if result.Subscription == nil {
		t.Fatal("expected a created subscription")
	}
	if result.Subscription.Service.Name != "Netflix" {
		t.Errorf("service = %q, want Netflix", result.Subscription.Service.Name)
	}
	if math.Abs(result.Subscription.MonthlyCost-15.99) > 1e-9 {
		t.Errorf("monthly cost = %v, want 15.99", result.Subscription.MonthlyCost)
	}
	if result.Subscription.BillingCycle != models.CycleMonthly {
		t.Errorf("cycle = %q, want monthly", result.Subscription.BillingCycle)
	}
	if result.Draft == nil || result.Draft.Source != nlp.SourcePattern {
		t.Errorf("draft source = %+v, want pattern", result.Draft)
	}

	var snap models.AnalyticsSnapshot
	if err := db.Where("user_id = ?", user.ID).First(&snap).Error; err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if snap.ServiceCount != 1 {
		t.Errorf("snapshot count = %d, want 1", snap.ServiceCount)
	}
}

func TestIngestLLMUnavailableSoftFails(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "auth0|alice")
	ingest := NewIngestService(db, nlp.NewPipeline(&stubLLM{err: errors.New("down")}), analytics.NewService(db))

	result, err := ingest.FromText(context.Background(), user.ID, "some unknown service payment", "")
	if err != nil {
		t.Fatalf("soft failure must not be an error: %v", err)
	}
	if result.Failure != failureNoParse {
		t.Errorf("failure = %q, want %q", result.Failure, failureNoParse)
	}
	if result.Subscription != nil {
		t.Error("no subscription should be created on a parse failure")
	}

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Errorf("found %d persisted rows after a parse failure", count)
	}
}

func TestIngestMissingCostSoftFails(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "auth0|alice")
	llm := &stubLLM{response: `{"service_name": "Notion", "service_category": "Software", "monthly_cost": null}`}
	ingest := NewIngestService(db, nlp.NewPipeline(llm), analytics.NewService(db))

	result, err := ingest.FromText(context.Background(), user.ID, "I use Notion", "")
	if err != nil {
		t.Fatalf("soft failure must not be an error: %v", err)
	}
	if result.Failure != failureNoCost {
		t.Errorf("failure = %q, want %q", result.Failure, failureNoCost)
	}
	if result.Draft == nil || result.Draft.ServiceName != "Notion" {
		t.Errorf("partial draft should be kept, got %+v", result.Draft)
	}
}

func TestIngestLLMPathCreates(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "auth0|alice")
	llm := &stubLLM{response: `{"service_name": "Notion", "service_category": "Software", "account": "work@corp.com", "monthly_cost": 8, "payment_date": "2025-04-10", "is_trial": true, "trial_duration_days": 14}`}
	ingest := NewIngestService(db, nlp.NewPipeline(llm), analytics.NewService(db))

	result, err := ingest.FromText(context.Background(), user.ID, "I pay for Notion at work", "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Failure != "" {
		t.Fatalf("unexpected failure: %q", result.Failure)
	}
	sub := result.Subscription
	if sub.Account != "work@corp.com" {
		t.Errorf("account = %q", sub.Account)
	}
	if !sub.IsTrial || sub.TrialDurationDays != 14 {
		t.Errorf("trial = %v/%d, want true/14", sub.IsTrial, sub.TrialDurationDays)
	}
	if sub.TrialStartDate == nil || sub.TrialEndDate == nil {
		t.Error("trial window must be derived on ingest")
	}

	var svc models.Service
	if err := db.Where("name = ?", "Notion").First(&svc).Error; err != nil {
		t.Fatalf("service not lazily created: %v", err)
	}
	if svc.Category != "Software" {
		t.Errorf("category = %q, want Software", svc.Category)
	}
}
