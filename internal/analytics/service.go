package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// snapshotTTL bounds time-based staleness between writes (e.g. a trial
// expiry crossing a month boundary).
const snapshotTTL = time.Hour

// Service owns the snapshot cache. Reads honor the freshness contract;
// every subscription mutation calls RecomputeTx inside its own transaction
// so the cache is correct immediately after a write.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Get returns the user's snapshot, recomputing when the caller forces a
// refresh, no snapshot exists, last_calculated is missing, or the snapshot
// is older than one hour.
func (s *Service) Get(userID uuid.UUID, force bool) (*models.AnalyticsSnapshot, error) {
	var snap models.AnalyticsSnapshot
	err := s.db.Where("user_id = ?", userID).First(&snap).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if force || errors.Is(err, gorm.ErrRecordNotFound) || s.stale(&snap) {
		return s.RecomputeTx(s.db, userID)
	}
	return &snap, nil
}

func (s *Service) stale(snap *models.AnalyticsSnapshot) bool {
	if snap.LastCalculated == nil {
		return true
	}
	return s.now().Sub(*snap.LastCalculated) > snapshotTTL
}

// RecomputeTx rebuilds the snapshot from the user's current subscription set
// and upserts the single per-user row. Concurrent recomputes for the same
// user are last-write-wins: the snapshot is a best-effort cache, not a
// ledger.
func (s *Service) RecomputeTx(tx *gorm.DB, userID uuid.UUID) (*models.AnalyticsSnapshot, error) {
	var subs []models.Subscription
	if err := tx.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	serviceIDs := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		serviceIDs = append(serviceIDs, sub.ServiceID)
	}

	categories := make(map[uuid.UUID]string)
	if len(serviceIDs) > 0 {
		var services []models.Service
		if err := tx.Where("id IN ?", serviceIDs).Find(&services).Error; err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
		for _, svc := range services {
			categories[svc.ID] = svc.Category
		}
	}

	summary := Compute(subs, categories)

	breakdown, err := json.Marshal(summary.CategoryBreakdown)
	if err != nil {
		return nil, err
	}
	trend, err := json.Marshal(summary.MonthlyTrend)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var snap models.AnalyticsSnapshot
	err = tx.Where("user_id = ?", userID).First(&snap).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	snap.UserID = userID
	snap.TotalMonthlyCost = summary.TotalMonthlyCost
	snap.TotalAnnualCost = summary.TotalAnnualCost
	snap.ServiceCount = summary.ServiceCount
	snap.CategoryBreakdown = datatypes.JSON(breakdown)
	snap.MonthlyTrend = datatypes.JSON(trend)
	snap.LastCalculated = &now

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Create(&snap).Error; err != nil {
			return nil, fmt.Errorf("failed to store snapshot: %w", err)
		}
	} else {
		if err := tx.Save(&snap).Error; err != nil {
			return nil, fmt.Errorf("failed to update snapshot: %w", err)
		}
	}

	return &snap, nil
}
