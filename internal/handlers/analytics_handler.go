package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/yuanbopang/subscription-manager/internal/analytics"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/dto"
)

type AnalyticsHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Get serves the cached analytics snapshot, recomputing when it is stale or
// when the client passes ?refresh=true.
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	force := c.QueryBool("refresh", false)
	snap, err := h.analytics.Get(user.ID, force)
	if err != nil {
		return internalError(c, "Failed to compute analytics")
	}

	resp := dto.AnalyticsResponse{
		TotalMonthlyCost:  snap.TotalMonthlyCost,
		TotalAnnualCost:   snap.TotalAnnualCost,
		ServiceCount:      snap.ServiceCount,
		CategoryBreakdown: []analytics.CategoryTotal{},
		MonthlyTrend:      []analytics.MonthTotal{},
		LastCalculated:    snap.LastCalculated,
	}
	if len(snap.CategoryBreakdown) > 0 {
		if err := json.Unmarshal(snap.CategoryBreakdown, &resp.CategoryBreakdown); err != nil {
			slog.Warn("corrupt category breakdown in snapshot", "user_id", user.ID, "error", err)
		}
	}
	if len(snap.MonthlyTrend) > 0 {
		if err := json.Unmarshal(snap.MonthlyTrend, &resp.MonthlyTrend); err != nil {
			slog.Warn("corrupt monthly trend in snapshot", "user_id", user.ID, "error", err)
		}
	}

	return c.JSON(resp)
}
