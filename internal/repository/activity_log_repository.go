package repository

import (
	"context"
	"fmt"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"gorm.io/gorm"
)

// ActivityLogRepository defines the interface for activity log data access
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.ActivityLog, int64, error)
}

// activityLogRepository implements ActivityLogRepository using GORM
type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository instance
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Create appends an activity log entry
func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity log: %w", result.Error)
	}
	return nil
}

// ListByAttachment retrieves log entries for an attachment, newest first
func (r *activityLogRepository) ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Where("attachment_id = ?", attachmentID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var entries []models.ActivityLog
	result := r.db.WithContext(ctx).
		Where("attachment_id = ?", attachmentID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", result.Error)
	}
	return entries, total, nil
}
