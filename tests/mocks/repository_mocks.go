// Package mocks provides testify mocks for the repository and storage
// interfaces used across service and handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID retrieves a user by its ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// GetByEmail retrieves a user by email address
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPathRepository implements repository.PathRepository
type MockPathRepository struct {
	mock.Mock
}

// Create creates a new path record
func (m *MockPathRepository) Create(ctx context.Context, path *models.Path) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// GetByID retrieves a path by its ID
func (m *MockPathRepository) GetByID(ctx context.Context, id uint) (*models.Path, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Path), args.Error(1)
}

// FindByOwnerAndName retrieves a path by owner and name
func (m *MockPathRepository) FindByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Path, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Path), args.Error(1)
}

// FindLatestByName retrieves the newest path with the given name
func (m *MockPathRepository) FindLatestByName(ctx context.Context, name string) (*models.Path, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Path), args.Error(1)
}

// ListWithCounts retrieves every path with its attachment count
func (m *MockPathRepository) ListWithCounts(ctx context.Context) ([]repository.DirectoryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DirectoryInfo), args.Error(1)
}

// DeleteCascade removes a path with its attachments and remarks
func (m *MockPathRepository) DeleteCascade(ctx context.Context, pathID uint, attachmentIDs []uint) error {
	args := m.Called(ctx, pathID, attachmentIDs)
	return args.Error(0)
}

// MockAttachmentRepository implements repository.AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

// CreateMany bulk-inserts attachment rows
func (m *MockAttachmentRepository) CreateMany(ctx context.Context, attachments []models.Attachment) error {
	args := m.Called(ctx, attachments)
	return args.Error(0)
}

// FindByStorageKeys retrieves a user's attachments matching storage keys
func (m *MockAttachmentRepository) FindByStorageKeys(ctx context.Context, userID uint, keys []string) ([]models.Attachment, error) {
	args := m.Called(ctx, userID, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

// FindByID retrieves an attachment by its ID
func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uint) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

// Find retrieves a page of attachments matching the filter
func (m *MockAttachmentRepository) Find(ctx context.Context, filter repository.AttachmentFilter, sort repository.AttachmentSort, limit, offset int) ([]models.Attachment, error) {
	args := m.Called(ctx, filter, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

// Count returns the number of attachments matching the filter
func (m *MockAttachmentRepository) Count(ctx context.Context, filter repository.AttachmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// FindByPathID retrieves every attachment under a path
func (m *MockAttachmentRepository) FindByPathID(ctx context.Context, pathID uint) ([]models.Attachment, error) {
	args := m.Called(ctx, pathID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attachment), args.Error(1)
}

// UpdateByID applies column updates and re-reads the row
func (m *MockAttachmentRepository) UpdateByID(ctx context.Context, id uint, fields map[string]any) (*models.Attachment, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

// DeleteWithRemarks removes an attachment and its remarks
func (m *MockAttachmentRepository) DeleteWithRemarks(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRemarkRepository implements repository.RemarkRepository
type MockRemarkRepository struct {
	mock.Mock
}

// Create inserts a remark
func (m *MockRemarkRepository) Create(ctx context.Context, remark *models.Remark) error {
	args := m.Called(ctx, remark)
	return args.Error(0)
}

// ListByAttachment retrieves remarks for an attachment
func (m *MockRemarkRepository) ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.Remark, int64, error) {
	args := m.Called(ctx, attachmentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Remark), args.Get(1).(int64), args.Error(2)
}

// MockActivityLogRepository implements repository.ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

// Create appends an activity log entry
func (m *MockActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListByAttachment retrieves log entries for an attachment
func (m *MockActivityLogRepository) ListByAttachment(ctx context.Context, attachmentID uint, limit, offset int) ([]models.ActivityLog, int64, error) {
	args := m.Called(ctx, attachmentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.ActivityLog), args.Get(1).(int64), args.Error(2)
}
