package repository

import (
	"context"
	"fmt"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"gorm.io/gorm"
)

// RemarkRepository defines the interface for remark data access
type RemarkRepository interface {
	Create(ctx context.Context, remark *models.Remark) error
	ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.Remark, int64, error)
}

// remarkRepository implements RemarkRepository using GORM
type remarkRepository struct {
	db *gorm.DB
}

// NewRemarkRepository creates a new RemarkRepository instance
func NewRemarkRepository(db *gorm.DB) RemarkRepository {
	return &remarkRepository{db: db}
}

// Create inserts a remark and loads its creator for the response
func (r *remarkRepository) Create(ctx context.Context, remark *models.Remark) error {
	if err := r.db.WithContext(ctx).Create(remark).Error; err != nil {
		return fmt.Errorf("failed to create remark: %w", err)
	}
	if err := r.db.WithContext(ctx).Preload("CreatedBy").First(remark, remark.ID).Error; err != nil {
		return fmt.Errorf("failed to load created remark: %w", err)
	}
	return nil
}

// ListByAttachment retrieves remarks for an attachment, newest first
func (r *remarkRepository) ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.Remark, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Remark{}).Where("attachment_id = ?", attachmentID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count remarks: %w", err)
	}

	var remarks []models.Remark
	result := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("attachment_id = ?", attachmentID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&remarks)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list remarks: %w", result.Error)
	}
	return remarks, total, nil
}
