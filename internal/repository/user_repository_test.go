package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/filevaultapp/filevault-backend/internal/models"
)

// UserRepositoryTestSuite is the test suite for UserRepository
type UserRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo UserRepository
}

// SetupSuite runs once before all tests
func (s *UserRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewUserRepository(db)
}

// TearDownSuite runs once after all tests
func (s *UserRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *UserRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM users")
}

func (s *UserRepositoryTestSuite) TestCreate_Success() {
	user := &models.User{
		Email:    "new@example.com",
		Name:     "New User",
		Password: "hashed",
		Role:     models.RoleMember,
	}

	err := s.repo.Create(context.Background(), user)

	require.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
}

func (s *UserRepositoryTestSuite) TestCreate_DuplicateEmail() {
	user := &models.User{Email: "dup@example.com", Name: "First", Password: "hashed", Role: models.RoleMember}
	require.NoError(s.T(), s.repo.Create(context.Background(), user))

	err := s.repo.Create(context.Background(), &models.User{
		Email:    "dup@example.com",
		Name:     "Second",
		Password: "hashed",
		Role:     models.RoleMember,
	})

	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, ErrDuplicateEntry)
}

func (s *UserRepositoryTestSuite) TestGetByID_Success() {
	user := &models.User{Email: "get@example.com", Name: "Getter", Password: "hashed", Role: models.RoleAdmin}
	require.NoError(s.T(), s.repo.Create(context.Background(), user))

	found, err := s.repo.GetByID(context.Background(), user.ID)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "get@example.com", found.Email)
	assert.Equal(s.T(), models.RoleAdmin, found.Role)
}

func (s *UserRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(context.Background(), 9999)

	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *UserRepositoryTestSuite) TestGetByEmail_Success() {
	user := &models.User{Email: "mail@example.com", Name: "Mail", Password: "hashed", Role: models.RoleMember}
	require.NoError(s.T(), s.repo.Create(context.Background(), user))

	found, err := s.repo.GetByEmail(context.Background(), "mail@example.com")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, found.ID)
}

func (s *UserRepositoryTestSuite) TestGetByEmail_NotFound() {
	_, err := s.repo.GetByEmail(context.Background(), "missing@example.com")

	assert.ErrorIs(s.T(), err, ErrNotFound)
}

// TestUserRepositoryTestSuite runs the test suite
func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
