// Package analytics computes per-user spend aggregates and manages the
// cached snapshot row.
package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/models"
)

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// Summary is the computed aggregate before it is stored as a snapshot.
type Summary struct {
	TotalMonthlyCost  float64
	TotalAnnualCost   float64
	ServiceCount      int
	CategoryBreakdown []CategoryTotal
	MonthlyTrend      []MonthTotal
}

// Compute is a pure function of the subscription set. categories maps
// service id to category; a missing entry falls back to "Other".
// CategoryBreakdown keeps first-encounter order. MonthlyTrend groups by the
// calendar month of each subscription's created_at and is ordered by the
// year-month key, not the label, so December sorts before the following
// January.
func Compute(subs []models.Subscription, categories map[uuid.UUID]string) Summary {
	summary := Summary{
		ServiceCount:      len(subs),
		CategoryBreakdown: []CategoryTotal{},
		MonthlyTrend:      []MonthTotal{},
	}

	catIndex := make(map[string]int)
	trendTotals := make(map[int]float64)

	for _, sub := range subs {
		summary.TotalMonthlyCost += sub.MonthlyCost

		category, ok := categories[sub.ServiceID]
		if !ok || category == "" {
			category = "Other"
		}
		if i, seen := catIndex[category]; seen {
			summary.CategoryBreakdown[i].Total += sub.MonthlyCost
		} else {
			catIndex[category] = len(summary.CategoryBreakdown)
			summary.CategoryBreakdown = append(summary.CategoryBreakdown, CategoryTotal{Category: category, Total: sub.MonthlyCost})
		}

		key := sub.CreatedAt.Year()*100 + int(sub.CreatedAt.Month())
		trendTotals[key] += sub.MonthlyCost
	}

	summary.TotalAnnualCost = summary.TotalMonthlyCost * 12

	keys := make([]int, 0, len(trendTotals))
	for k := range trendTotals {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		label := time.Month(k % 100).String()[:3]
		summary.MonthlyTrend = append(summary.MonthlyTrend, MonthTotal{Month: label, Total: trendTotals[k]})
	}

	return summary
}
