package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/filevaultapp/filevault-backend/internal/api/middleware"
	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/services"
)

var handlerTestSecret = []byte("0123456789abcdef0123456789abcdef")

func newAuthTestHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	auth := services.NewAuthService(repository.NewUserRepository(db), handlerTestSecret, 24*time.Hour)
	return NewAuthHandler(auth, 24*time.Hour), db
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_SetsCookie(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, rec := postJSON(t, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`)

	require.NoError(t, handler.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	assert.Contains(t, rec.Body.String(), `"alice@example.com"`)

	cookie := findCookie(rec, "access_token")
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, _ := postJSON(t, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.NoError(t, handler.Register(c))

	c, rec := postJSON(t, "/api/v1/auth/register",
		`{"name":"Bob","email":"alice@example.com","password":"password456"}`)
	require.NoError(t, handler.Register(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, _ := postJSON(t, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.NoError(t, handler.Register(c))

	c, rec := postJSON(t, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"password123"}`)
	require.NoError(t, handler.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, findCookie(rec, "access_token"))
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, _ := postJSON(t, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	require.NoError(t, handler.Register(c))

	c, rec := postJSON(t, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong-password"}`)
	require.NoError(t, handler.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, rec := postJSON(t, "/api/v1/auth/login", `{"email":"alice@example.com"}`)
	require.NoError(t, handler.Login(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	c, rec := postJSON(t, "/api/v1/auth/logout", "")
	require.NoError(t, handler.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec, "access_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandler_Me_ReturnsProfile(t *testing.T) {
	handler, db := newAuthTestHandler(t)

	user := &models.User{Email: "alice@example.com", Name: "Alice", Password: "hashed", Role: models.RoleMember}
	require.NoError(t, db.Create(user).Error)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDKey, user.ID)

	require.NoError(t, handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}

func TestAuthHandler_Me_WithoutAuth(t *testing.T) {
	handler, _ := newAuthTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
