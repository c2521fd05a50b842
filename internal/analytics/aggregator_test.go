package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/models"
)

func sub(serviceID uuid.UUID, monthly float64, created time.Time) models.Subscription {
	return models.Subscription{
		ID:          uuid.New(),
		ServiceID:   serviceID,
		MonthlyCost: monthly,
		CreatedAt:   created,
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, nil)
	if got.TotalMonthlyCost != 0 || got.TotalAnnualCost != 0 || got.ServiceCount != 0 {
		t.Errorf("empty input should produce zero totals, got %+v", got)
	}
	if got.CategoryBreakdown == nil || got.MonthlyTrend == nil {
		t.Error("breakdown and trend must be empty slices, not nil")
	}
}

func TestComputeTotals(t *testing.T) {
	netflix := uuid.New()
	spotify := uuid.New()
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	subs := []models.Subscription{
		sub(netflix, 15.99, jan),
		sub(spotify, 9.99, jan),
	}
	categories := map[uuid.UUID]string{netflix: "Streaming", spotify: "Music"}

	got := Compute(subs, categories)
	if math.Abs(got.TotalMonthlyCost-25.98) > 1e-9 {
		t.Errorf("total monthly = %v, want 25.98", got.TotalMonthlyCost)
	}
	if math.Abs(got.TotalAnnualCost-got.TotalMonthlyCost*12) > 1e-9 {
		t.Errorf("annual = %v, want exactly 12x monthly", got.TotalAnnualCost)
	}
	if got.ServiceCount != 2 {
		t.Errorf("service count = %d, want 2", got.ServiceCount)
	}
}

func TestComputeIdempotent(t *testing.T) {
	id := uuid.New()
	subs := []models.Subscription{
		sub(id, 12.5, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
		sub(id, 3.25, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}
	categories := map[uuid.UUID]string{id: "Software"}

	first := Compute(subs, categories)
	second := Compute(subs, categories)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation diverged:\n%+v\n%+v", first, second)
	}
}

func TestComputeCategoryBreakdown(t *testing.T) {
	netflix := uuid.New()
	disney := uuid.New()
	unknown := uuid.New()
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	subs := []models.Subscription{
		sub(netflix, 15.99, jan),
		sub(unknown, 5, jan),
		sub(disney, 7.99, jan),
	}
	categories := map[uuid.UUID]string{netflix: "Streaming", disney: "Streaming"}

	got := Compute(subs, categories)
	want := []CategoryTotal{
		{Category: "Streaming", Total: 23.98},
		{Category: "Other", Total: 5},
	}
	if len(got.CategoryBreakdown) != len(want) {
		t.Fatalf("breakdown = %+v, want %+v", got.CategoryBreakdown, want)
	}
	for i := range want {
		if got.CategoryBreakdown[i].Category != want[i].Category ||
			math.Abs(got.CategoryBreakdown[i].Total-want[i].Total) > 1e-9 {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got.CategoryBreakdown[i], want[i])
		}
	}

	var breakdownSum float64
	for _, c := range got.CategoryBreakdown {
		breakdownSum += c.Total
	}
	if math.Abs(breakdownSum-got.TotalMonthlyCost) > 1e-9 {
		t.Errorf("breakdown sum %v != total monthly %v", breakdownSum, got.TotalMonthlyCost)
	}
}

func TestComputeMonthlyTrendOrdering(t *testing.T) {
	id := uuid.New()
	subs := []models.Subscription{
		sub(id, 10, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)),
		sub(id, 20, time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC)),
		sub(id, 5, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)),
	}

	got := Compute(subs, map[uuid.UUID]string{id: "Streaming"})
	want := []MonthTotal{
		{Month: "Dec", Total: 20},
		{Month: "Jan", Total: 15},
	}
	if !reflect.DeepEqual(got.MonthlyTrend, want) {
		t.Errorf("trend = %+v, want %+v (December 2024 must precede January 2025)", got.MonthlyTrend, want)
	}
}
