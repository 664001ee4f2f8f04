package repository

import (
	"errors"
	"readiness_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	DB *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(log *model.EmailLog) error {
	return r.DB.Create(log).Error
}

// FindByMessageID looks up a log by provider message id. A nil result with a
// nil error means the id is unknown; webhook callers treat that as a no-op.
func (r *EmailLogRepository) FindByMessageID(messageID string) (*model.EmailLog, error) {
	var log model.EmailLog
	err := r.DB.Where("message_id = ?", messageID).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *EmailLogRepository) MarkSent(id uint, messageID string, retryCount int) error {
	now := time.Now()
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.EmailStatusSent,
			"message_id":  messageID,
			"sent_at":     now,
			"retry_count": retryCount,
		}).Error
}

func (r *EmailLogRepository) MarkFailed(id uint, reason string) error {
	now := time.Now()
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.EmailStatusFailed,
			"failed_at":      now,
			"failure_reason": reason,
		}).Error
}

func (r *EmailLogRepository) MarkDelivered(id uint, at time.Time) error {
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.EmailStatusDelivered,
			"delivered_at": at,
		}).Error
}

func (r *EmailLogRepository) MarkOpened(id uint, at time.Time) error {
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    model.EmailStatusOpened,
			"opened_at": at,
		}).Error
}

func (r *EmailLogRepository) MarkClicked(id uint, at time.Time) error {
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.EmailStatusClicked,
			"clicked_at": at,
		}).Error
}

func (r *EmailLogRepository) MarkDeliveryFailed(id uint, at time.Time, reason string) error {
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.EmailStatusFailed,
			"failed_at":      at,
			"failure_reason": reason,
		}).Error
}

func (r *EmailLogRepository) MarkBounced(id uint, at time.Time, reason string) error {
	return r.DB.Model(&model.EmailLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.EmailStatusBounced,
			"failed_at":      at,
			"failure_reason": reason,
		}).Error
}
