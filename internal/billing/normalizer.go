// Package billing normalizes billed amounts to a canonical monthly figure.
package billing

import (
	"errors"

	"github.com/yuanbopang/subscription-manager/internal/models"
)

var (
	ErrNegativeCost = errors.New("cost must be zero or positive")
	ErrUnknownCycle = errors.New("billing cycle must be weekly, monthly or yearly")
)

// weeksPerMonth is the average number of weeks in a calendar month (52/12).
const weeksPerMonth = 52.0 / 12.0

// MonthlyCost converts a (cost, billing cycle) pair into the canonical
// monthly cost. Pure and deterministic; the only rejected inputs are a
// negative cost and an unknown cycle.
func MonthlyCost(cost float64, cycle string) (float64, error) {
	if cost < 0 {
		return 0, ErrNegativeCost
	}
	switch cycle {
	case models.CycleMonthly:
		return cost, nil
	case models.CycleYearly:
		return cost / 12, nil
	case models.CycleWeekly:
		return cost * weeksPerMonth, nil
	default:
		return 0, ErrUnknownCycle
	}
}
