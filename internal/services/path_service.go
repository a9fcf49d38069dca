package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/filevaultapp/filevault-backend/internal/errors"
	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/storage"
	"github.com/filevaultapp/filevault-backend/internal/validator"
)

// PathDTO is the wire representation of a path record
type PathDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	OwnerID  uint   `json:"ownerId"`
	ParentID *uint  `json:"parentId"`
}

// PathService implements explicit path management
type PathService struct {
	paths    repository.PathRepository
	store    storage.FileStorage
	recorder *ActivityRecorder
}

// NewPathService creates a new PathService
func NewPathService(paths repository.PathRepository, store storage.FileStorage, recorder *ActivityRecorder) *PathService {
	return &PathService{paths: paths, store: store, recorder: recorder}
}

// Create makes a new path record. A parent, when given, must exist and
// belong to the caller.
func (s *PathService) Create(ctx context.Context, userID uint, name string, parentID *uint) (*PathDTO, error) {
	name, err := validator.ValidateFolderName(name)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	if parentID != nil {
		parent, err := s.paths.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewAppError(apperrors.ErrPathNotFound, "parent path not found", apperrors.CodeNotFound)
			}
			return nil, err
		}
		if parent.OwnerID != userID {
			return nil, forbidden("parent path belongs to another user")
		}
	}

	record := &models.Path{Name: name, OwnerID: userID, ParentID: parentID}
	if err := s.paths.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry,
				fmt.Sprintf("path %q already exists", name), apperrors.CodeDuplicateEntry)
		}
		return nil, err
	}

	s.recorder.RecordNow(ctx, models.ActionPathCreate,
		fmt.Sprintf("created path %q", name), userID, nil)

	return &PathDTO{
		ID:       record.ID,
		Name:     record.Name,
		OwnerID:  record.OwnerID,
		ParentID: record.ParentID,
	}, nil
}

// ListDirectories returns every path with its attachment count
func (s *PathService) ListDirectories(ctx context.Context) ([]DirectoryDTO, error) {
	directories, err := s.paths.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]DirectoryDTO, 0, len(directories))
	for i := range directories {
		result = append(result, directoryDTO(s.store, &directories[i]))
	}
	return result, nil
}
