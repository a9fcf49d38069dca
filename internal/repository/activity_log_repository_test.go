package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/filevaultapp/filevault-backend/internal/models"
)

// ActivityLogRepositoryTestSuite is the test suite for ActivityLogRepository
type ActivityLogRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repo     ActivityLogRepository
	testUser *models.User
}

// SetupSuite runs once before all tests
func (s *ActivityLogRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.User{}, &models.ActivityLog{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewActivityLogRepository(db)
}

// TearDownSuite runs once after all tests
func (s *ActivityLogRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *ActivityLogRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM activity_logs")
	s.db.Exec("DELETE FROM users")

	s.testUser = &models.User{Email: "actor@example.com", Name: "Actor", Password: "hashed", Role: models.RoleMember}
	require.NoError(s.T(), s.db.Create(s.testUser).Error)
}

func (s *ActivityLogRepositoryTestSuite) TestCreate_Success() {
	attachmentID := uint(1)
	entry := &models.ActivityLog{
		Action:       models.ActionAttachmentUpload,
		Detail:       "uploaded a.pdf",
		UserID:       s.testUser.ID,
		AttachmentID: &attachmentID,
	}

	err := s.repo.Create(context.Background(), entry)

	require.NoError(s.T(), err)
	assert.NotZero(s.T(), entry.ID)
}

func (s *ActivityLogRepositoryTestSuite) TestCreate_NilAttachmentID() {
	// Delete actions keep no attachment reference
	entry := &models.ActivityLog{
		Action: models.ActionAttachmentDelete,
		Detail: "deleted a.pdf",
		UserID: s.testUser.ID,
	}

	err := s.repo.Create(context.Background(), entry)

	require.NoError(s.T(), err)
}

func (s *ActivityLogRepositoryTestSuite) TestListByAttachment_NewestFirst() {
	attachmentID := uint(7)

	older := &models.ActivityLog{Action: models.ActionAttachmentUpload, Detail: "uploaded", UserID: s.testUser.ID, AttachmentID: &attachmentID}
	require.NoError(s.T(), s.db.Create(older).Error)
	s.db.Model(older).Update("created_at", time.Now().Add(-time.Hour))

	newer := &models.ActivityLog{Action: models.ActionAttachmentUpdate, Detail: "renamed", UserID: s.testUser.ID, AttachmentID: &attachmentID}
	require.NoError(s.T(), s.db.Create(newer).Error)

	entries, total, err := s.repo.ListByAttachment(context.Background(), attachmentID, 10, 0)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), total)
	require.Len(s.T(), entries, 2)
	assert.Equal(s.T(), models.ActionAttachmentUpdate, entries[0].Action)
}

func (s *ActivityLogRepositoryTestSuite) TestListByAttachment_ScopedToAttachment() {
	first, second := uint(1), uint(2)
	require.NoError(s.T(), s.db.Create(&models.ActivityLog{Action: models.ActionAttachmentUpload, Detail: "a", UserID: s.testUser.ID, AttachmentID: &first}).Error)
	require.NoError(s.T(), s.db.Create(&models.ActivityLog{Action: models.ActionAttachmentUpload, Detail: "b", UserID: s.testUser.ID, AttachmentID: &second}).Error)

	entries, total, err := s.repo.ListByAttachment(context.Background(), first, 10, 0)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), entries, 1)
	assert.Equal(s.T(), "a", entries[0].Detail)
}

// TestActivityLogRepositoryTestSuite runs the test suite
func TestActivityLogRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityLogRepositoryTestSuite))
}
