package repository

import (
	"errors"
	"readiness_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type RateLimitRepository struct {
	DB *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{DB: db}
}

// Hit records one request against the (ipHash, action) pair inside the
// current fixed window and reports whether it is allowed. The increment is a
// guarded UPDATE so concurrent hits never lose counts; the unique index on
// (ip_hash, action, window_start) settles first-hit races.
//
// The window is fixed, not sliding: a client can fit 2x max across a window
// boundary. That trade-off is intentional.
func (r *RateLimitRepository) Hit(ipHash, action string, window time.Duration, max int) (bool, int, error) {
	now := time.Now()
	windowStart := now.Truncate(window)

	incremented, err := r.increment(ipHash, action, windowStart, max)
	if err != nil {
		return false, 0, err
	}
	if incremented {
		return true, 0, nil
	}

	var existing model.RateLimit
	err = r.DB.Where("ip_hash = ? AND action = ? AND window_start = ?", ipHash, action, windowStart).
		First(&existing).Error

	if err == nil {
		// Row exists and the guarded update refused it: over the limit.
		return false, retryAfterSeconds(windowStart, window, now), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, err
	}

	// First hit of this window.
	row := model.RateLimit{
		IPHash:      ipHash,
		Action:      action,
		WindowStart: windowStart,
		Count:       1,
	}
	if createErr := r.DB.Create(&row).Error; createErr != nil {
		// Lost the insert race; fall back to one more guarded increment.
		incremented, err = r.increment(ipHash, action, windowStart, max)
		if err != nil {
			return false, 0, err
		}
		if !incremented {
			return false, retryAfterSeconds(windowStart, window, now), nil
		}
	}

	return true, 0, nil
}

func (r *RateLimitRepository) increment(ipHash, action string, windowStart time.Time, max int) (bool, error) {
	res := r.DB.Model(&model.RateLimit{}).
		Where("ip_hash = ? AND action = ? AND window_start = ? AND count < ?", ipHash, action, windowStart, max).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func retryAfterSeconds(windowStart time.Time, window time.Duration, now time.Time) int {
	remaining := windowStart.Add(window).Sub(now)
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
