package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"gorm.io/gorm"
)

// DirectoryInfo pairs a path record with the number of attachments it holds
type DirectoryInfo struct {
	Path      models.Path
	ItemCount int64
}

// PathRepository defines the interface for path (folder) data access
type PathRepository interface {
	Create(ctx context.Context, path *models.Path) error
	GetByID(ctx context.Context, id uint) (*models.Path, error)
	FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Path, error)
	FindLatestByName(ctx context.Context, name string) (*models.Path, error)
	ListWithCounts(ctx context.Context) ([]DirectoryInfo, error)
	DeleteCascade(ctx context.Context, pathID uint, attachmentIDs []uint) error
}

// pathRepository implements PathRepository using GORM
type pathRepository struct {
	db *gorm.DB
}

// NewPathRepository creates a new PathRepository instance
func NewPathRepository(db *gorm.DB) PathRepository {
	return &pathRepository{db: db}
}

// Create creates a new path record
func (r *pathRepository) Create(ctx context.Context, path *models.Path) error {
	result := r.db.WithContext(ctx).Create(path)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("path '%s' already exists for owner %d: %w", path.Name, path.OwnerID, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create path: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a path by its ID
func (r *pathRepository) GetByID(ctx context.Context, id uint) (*models.Path, error) {
	var path models.Path
	result := r.db.WithContext(ctx).First(&path, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get path by ID: %w", result.Error)
	}
	return &path, nil
}

// FindByOwnerAndName retrieves the path with the given name owned by a user.
// Folder names are unique per owner, so at most one row can match.
func (r *pathRepository) FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Path, error) {
	var path models.Path
	result := r.db.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name).First(&path)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find path by owner and name: %w", result.Error)
	}
	return &path, nil
}

// FindLatestByName retrieves the most recently created path with the given
// name regardless of owner. Used by list filters where the folder name alone
// identifies the directory.
func (r *pathRepository) FindLatestByName(ctx context.Context, name string) (*models.Path, error) {
	var path models.Path
	result := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at DESC").First(&path)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find path by name: %w", result.Error)
	}
	return &path, nil
}

// ListWithCounts retrieves every path with its owner joined and the number of
// attachments referencing it, ordered by name.
func (r *pathRepository) ListWithCounts(ctx context.Context) ([]DirectoryInfo, error) {
	var paths []models.Path
	if err := r.db.WithContext(ctx).Preload("Owner").Order("name ASC").Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}

	type pathCount struct {
		PathID uint
		Total  int64
	}
	var counts []pathCount
	err := r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Select("path_id, COUNT(*) as total").
		Where("path_id IS NOT NULL").
		Group("path_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count attachments per path: %w", err)
	}

	countByID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByID[c.PathID] = c.Total
	}

	directories := make([]DirectoryInfo, 0, len(paths))
	for _, p := range paths {
		directories = append(directories, DirectoryInfo{
			Path:      p,
			ItemCount: countByID[p.ID],
		})
	}
	return directories, nil
}

// DeleteCascade removes a path together with the given attachments and their
// remarks in a single transaction. Remarks go first, then attachments, then
// the path row, to satisfy referential integrity.
func (r *pathRepository) DeleteCascade(ctx context.Context, pathID uint, attachmentIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(attachmentIDs) > 0 {
			if err := tx.Where("attachment_id IN ?", attachmentIDs).Delete(&models.Remark{}).Error; err != nil {
				return fmt.Errorf("failed to delete remarks: %w", err)
			}
			if err := tx.Where("id IN ?", attachmentIDs).Delete(&models.Attachment{}).Error; err != nil {
				return fmt.Errorf("failed to delete attachments: %w", err)
			}
		}

		result := tx.Delete(&models.Path{}, pathID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete path: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
