package dto

import (
	"time"

	"github.com/yuanbopang/subscription-manager/internal/analytics"
)

type AnalyticsResponse struct {
	TotalMonthlyCost  float64                   `json:"total_monthly_cost"`
	TotalAnnualCost   float64                   `json:"total_annual_cost"`
	ServiceCount      int                       `json:"service_count"`
	CategoryBreakdown []analytics.CategoryTotal `json:"category_breakdown"`
	MonthlyTrend      []analytics.MonthTotal    `json:"monthly_trend"`
	LastCalculated    *time.Time                `json:"last_calculated"`
}
