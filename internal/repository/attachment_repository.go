package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"gorm.io/gorm"
)

// NoMatchPathID is an impossible path id. Filtering on it yields an empty
// result set, which is how an unknown folder name is represented without
// turning the listing into an error.
const NoMatchPathID int64 = -1

// AttachmentFilter narrows attachment queries. A nil PathID applies no path
// condition; any other value is matched exactly (see NoMatchPathID).
type AttachmentFilter struct {
	PathID *int64
	Kind   string
	Search string
}

// AttachmentSort describes the requested ordering of a listing
type AttachmentSort struct {
	By    string // one of: name, size, created_at, updated_at
	Order string // asc or desc
}

// sortColumns whitelists sortable columns to keep user input out of SQL.
// The API spells timestamps in camelCase; both forms are accepted.
var sortColumns = map[string]string{
	"name":       "name",
	"size":       "size",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	CreateMany(ctx context.Context, attachments []models.Attachment) error
	FindByStorageKeys(ctx context.Context, userID uint, keys []string) ([]models.Attachment, error)
	FindByID(ctx context.Context, id uint) (*models.Attachment, error)
	Find(ctx context.Context, filter AttachmentFilter, sort AttachmentSort, limit, offset int) ([]models.Attachment, error)
	Count(ctx context.Context, filter AttachmentFilter) (int64, error)
	FindByPathID(ctx context.Context, pathID uint) ([]models.Attachment, error)
	UpdateByID(ctx context.Context, id uint, fields map[string]any) (*models.Attachment, error)
	DeleteWithRemarks(ctx context.Context, id uint) error
}

// attachmentRepository implements AttachmentRepository using GORM
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository instance
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// applyFilter adds the filter conditions to a query
func applyFilter(tx *gorm.DB, filter AttachmentFilter) *gorm.DB {
	if filter.PathID != nil {
		tx = tx.Where("path_id = ?", *filter.PathID)
	}
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", filter.Kind)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + term + "%"
		tx = tx.Where("name LIKE ? OR mime LIKE ? OR path LIKE ?", like, like, like)
	}
	return tx
}

// orderClause translates an AttachmentSort into a safe ORDER BY expression
func orderClause(sort AttachmentSort) string {
	column, ok := sortColumns[sort.By]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sort.Order, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

// withRelations preloads the owner and audit users
func (r *attachmentRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("CreatedBy").
		Preload("UpdatedBy")
}

// CreateMany bulk-inserts attachment rows in a single statement
func (r *attachmentRepository) CreateMany(ctx context.Context, attachments []models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Create(&attachments)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("duplicate storage key in batch: %w", ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create attachments: %w", result.Error)
	}
	return nil
}

// FindByStorageKeys retrieves a user's attachments matching the given storage
// keys, with owner and audit users joined. Used to hydrate rows right after a
// bulk insert, which does not return relations.
func (r *attachmentRepository) FindByStorageKeys(ctx context.Context, userID uint, keys []string) ([]models.Attachment, error) {
	if len(keys) == 0 {
		return []models.Attachment{}, nil
	}
	var attachments []models.Attachment
	result := r.withRelations(ctx).
		Where("user_id = ? AND storage_key IN ?", userID, keys).
		Find(&attachments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find attachments by storage keys: %w", result.Error)
	}
	return attachments, nil
}

// FindByID retrieves an attachment with owner and audit users joined
func (r *attachmentRepository) FindByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	result := r.withRelations(ctx).First(&attachment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attachment by ID: %w", result.Error)
	}
	return &attachment, nil
}

// Find retrieves a page of attachments matching the filter
func (r *attachmentRepository) Find(ctx context.Context, filter AttachmentFilter, sort AttachmentSort, limit, offset int) ([]models.Attachment, error) {
	var attachments []models.Attachment
	tx := applyFilter(r.withRelations(ctx), filter)
	result := tx.Order(orderClause(sort)).Limit(limit).Offset(offset).Find(&attachments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", result.Error)
	}
	return attachments, nil
}

// Count returns the number of attachments matching the filter
func (r *attachmentRepository) Count(ctx context.Context, filter AttachmentFilter) (int64, error) {
	var count int64
	tx := applyFilter(r.db.WithContext(ctx).Model(&models.Attachment{}), filter)
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}
	return count, nil
}

// FindByPathID retrieves every attachment under a path. Only the columns the
// directory-delete flow needs are selected.
func (r *attachmentRepository) FindByPathID(ctx context.Context, pathID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	result := r.db.WithContext(ctx).
		Select("id", "storage_key").
		Where("path_id = ?", pathID).
		Find(&attachments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find attachments by path: %w", result.Error)
	}
	return attachments, nil
}

// UpdateByID applies the given column updates in one statement and re-reads
// the row with relations. Callers must include path and path_id together so
// the denormalized pair never diverges.
func (r *attachmentRepository) UpdateByID(ctx context.Context, id uint, fields map[string]any) (*models.Attachment, error) {
	result := r.db.WithContext(ctx).Model(&models.Attachment{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update attachment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// DeleteWithRemarks removes an attachment and its remarks in a transaction.
// Remarks are deleted first to satisfy referential integrity.
func (r *attachmentRepository) DeleteWithRemarks(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attachment_id = ?", id).Delete(&models.Remark{}).Error; err != nil {
			return fmt.Errorf("failed to delete remarks: %w", err)
		}

		result := tx.Delete(&models.Attachment{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete attachment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
