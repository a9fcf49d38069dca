package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

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
	"github.com/filevaultapp/filevault-backend/internal/storage"
)

type attachmentTestEnv struct {
	handler *AttachmentHandler
	db      *gorm.DB
	user    *models.User
	echo    *echo.Echo
}

func newAttachmentTestEnv(t *testing.T) *attachmentTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Path{}, &models.Attachment{}, &models.Remark{}, &models.ActivityLog{},
	))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := services.NewActivityRecorder(repository.NewActivityLogRepository(db), log)
	service := services.NewAttachmentService(
		repository.NewAttachmentRepository(db),
		repository.NewPathRepository(db),
		repository.NewActivityLogRepository(db),
		store,
		recorder,
		log,
		"http://localhost:4000",
	)

	user := &models.User{Email: "owner@example.com", Name: "Owner", Password: "hashed", Role: models.RoleMember}
	require.NoError(t, db.Create(user).Error)

	return &attachmentTestEnv{
		handler: NewAttachmentHandler(service),
		db:      db,
		user:    user,
		echo:    echo.New(),
	}
}

// multipartBody builds a multipart form carrying the named files plus any
// extra form values
func multipartBody(t *testing.T, filenames []string, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (env *attachmentTestEnv) uploadRequest(t *testing.T, filenames []string, values map[string]string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filenames, values)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	if authenticated {
		c.Set(middleware.UserIDKey, env.user.ID)
	}
	require.NoError(t, env.handler.Upload(c))
	return rec
}

func TestAttachmentHandler_Upload_Success(t *testing.T) {
	env := newAttachmentTestEnv(t)

	rec := env.uploadRequest(t, []string{"report.pdf", "photo.png"}, nil, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "report.pdf")
	assert.Contains(t, rec.Body.String(), "photo.png")
	assert.Contains(t, rec.Body.String(), `"storageUrl"`)
}

func TestAttachmentHandler_Upload_IntoFolder(t *testing.T) {
	env := newAttachmentTestEnv(t)

	rec := env.uploadRequest(t, []string{"report.pdf"}, map[string]string{"folder": "Documents"}, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/Documents"`)
}

func TestAttachmentHandler_Upload_WithoutAuth(t *testing.T) {
	env := newAttachmentTestEnv(t)

	rec := env.uploadRequest(t, []string{"report.pdf"}, nil, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttachmentHandler_Upload_NoFiles(t *testing.T) {
	env := newAttachmentTestEnv(t)

	rec := env.uploadRequest(t, nil, map[string]string{"folder": "Documents"}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no files provided")
}

func TestAttachmentHandler_Upload_InvalidPathID(t *testing.T) {
	env := newAttachmentTestEnv(t)

	rec := env.uploadRequest(t, []string{"report.pdf"}, map[string]string{"pathId": "abc"}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid pathId")
}

func TestAttachmentHandler_List_ReturnsPage(t *testing.T) {
	env := newAttachmentTestEnv(t)
	env.uploadRequest(t, []string{"report.pdf"}, nil, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.handler.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)
	assert.Contains(t, rec.Body.String(), `"directories"`)
}

func TestAttachmentHandler_List_InvalidPathID(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments?pathId=abc", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.handler.List(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachmentHandler_GetOne_InvalidID(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments/abc", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, env.handler.GetOne(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid attachment ID")
}

func TestAttachmentHandler_GetOne_NotFound(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments/9999", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9999")

	require.NoError(t, env.handler.GetOne(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "attachment not found")
}

func firstAttachmentID(t *testing.T, db *gorm.DB) string {
	t.Helper()
	var attachment models.Attachment
	require.NoError(t, db.First(&attachment).Error)
	return strconv.FormatUint(uint64(attachment.ID), 10)
}

func TestAttachmentHandler_Update_NoChanges(t *testing.T) {
	env := newAttachmentTestEnv(t)
	env.uploadRequest(t, []string{"report.pdf"}, nil, true)
	id := firstAttachmentID(t, env.db)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/attachments/1", strings.NewReader(`{"name":"report.pdf"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, env.handler.Update(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no changes detected for attachment")
}

func TestAttachmentHandler_Update_Rename(t *testing.T) {
	env := newAttachmentTestEnv(t)
	env.uploadRequest(t, []string{"report.pdf"}, nil, true)
	id := firstAttachmentID(t, env.db)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/attachments/1", strings.NewReader(`{"name":"renamed.pdf"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, env.handler.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "renamed.pdf")
}

func TestAttachmentHandler_Delete_Success(t *testing.T) {
	env := newAttachmentTestEnv(t)
	env.uploadRequest(t, []string{"report.pdf"}, nil, true)
	id := firstAttachmentID(t, env.db)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/attachments/1", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)

	require.NoError(t, env.handler.Delete(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	env.db.Model(&models.Attachment{}).Count(&count)
	assert.Zero(t, count)
}

func TestAttachmentHandler_CreateFolder_Success(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/folders", strings.NewReader(`{"folder":"Documents"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)

	require.NoError(t, env.handler.CreateFolder(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"folder":"/Documents"`)
	assert.Contains(t, rec.Body.String(), `"pathId"`)
}

func TestAttachmentHandler_CreateFolder_NestedRejected(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/folders", strings.NewReader(`{"folder":"a/b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)

	require.NoError(t, env.handler.CreateFolder(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nested folders are not allowed")
}

func TestAttachmentHandler_DeleteDirectory_Unknown(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/attachments/directory/NoSuchFolder", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.Set(middleware.UserIDKey, env.user.ID)
	c.SetParamNames("folder")
	c.SetParamValues("NoSuchFolder")

	require.NoError(t, env.handler.DeleteDirectory(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "directory not found")
}

func TestAttachmentHandler_ListByDirectory_Unknown(t *testing.T) {
	env := newAttachmentTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments/directory/NoSuchFolder", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("folder")
	c.SetParamValues("NoSuchFolder")

	require.NoError(t, env.handler.ListByDirectory(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
