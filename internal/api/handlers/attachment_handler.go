package handlers

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/filevaultapp/filevault-backend/internal/api/middleware"
	"github.com/filevaultapp/filevault-backend/internal/api/response"
	"github.com/filevaultapp/filevault-backend/internal/services"
	"github.com/filevaultapp/filevault-backend/internal/storage"
)

// AttachmentHandler handles attachment-related HTTP requests
type AttachmentHandler struct {
	attachments *services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachments *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// currentUserID reads the authenticated user id set by the JWT middleware
func currentUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(middleware.UserIDKey).(uint)
	return userID, ok
}

// parseID parses a numeric path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// queryInt parses an integer query parameter, returning 0 when absent
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

// queryPathID parses the optional pathId query parameter
func queryPathID(c echo.Context) (*uint, error) {
	raw := c.QueryParam("pathId")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	pathID := uint(id)
	return &pathID, nil
}

// Upload handles POST /api/v1/attachments. Files arrive in the multipart
// field "files"; the target folder comes from the pathId or folder form value.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return response.BadRequest(c, "no files provided")
	}
	if len(fileHeaders) > storage.MaxFilesPerUpload {
		return response.BadRequest(c, fmt.Sprintf("too many files: at most %d per upload", storage.MaxFilesPerUpload))
	}
	for _, fh := range fileHeaders {
		if fh.Size > storage.MaxFileSize {
			return response.BadRequest(c, fmt.Sprintf("file %q exceeds the %d MB limit", fh.Filename, storage.MaxFileSize/(1024*1024)))
		}
	}

	var pathID *uint
	if raw := c.FormValue("pathId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "invalid pathId")
		}
		v := uint(id)
		pathID = &v
	}
	folder := c.FormValue("folder")

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	opened := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			return response.InternalError(c, "failed to read uploaded file")
		}
		opened = append(opened, src)
		files = append(files, services.UploadedFile{
			Name:    fh.Filename,
			Size:    fh.Size,
			Mime:    fh.Header.Get("Content-Type"),
			Content: src,
		})
	}

	created, err := h.attachments.CreateMultiple(c.Request().Context(), userID, files, pathID, folder)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, created)
}

// List handles GET /api/v1/attachments
func (h *AttachmentHandler) List(c echo.Context) error {
	pathID, err := queryPathID(c)
	if err != nil {
		return response.BadRequest(c, "invalid pathId")
	}

	query := services.AttachmentQuery{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		PathID:    pathID,
		Folder:    c.QueryParam("folder"),
		Kind:      c.QueryParam("kind"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	page, err := h.attachments.List(c.Request().Context(), query)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, page)
}

// ListByDirectory handles GET /api/v1/attachments/directory/:folder
func (h *AttachmentHandler) ListByDirectory(c echo.Context) error {
	query := services.AttachmentQuery{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		Kind:      c.QueryParam("kind"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	page, err := h.attachments.ListByDirectory(c.Request().Context(), c.Param("folder"), query)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, page)
}

// GetOne handles GET /api/v1/attachments/:id. Pass logs=true to include a
// page of the attachment's activity trail.
func (h *AttachmentHandler) GetOne(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	includeLogs := c.QueryParam("logs") == "true"
	detail, err := h.attachments.FindOneWithLogs(c.Request().Context(), id, includeLogs,
		queryInt(c, "logPage"), queryInt(c, "logLimit"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

// UpdateRequest represents an attachment update request
type UpdateRequest struct {
	Name   *string `json:"name"`
	PathID *uint   `json:"pathId"`
	Folder *string `json:"folder"`
}

// Update handles PATCH /api/v1/attachments/:id
func (h *AttachmentHandler) Update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	updated, err := h.attachments.Update(c.Request().Context(), userID, id, services.UpdateAttachmentRequest{
		Name:   req.Name,
		PathID: req.PathID,
		Folder: req.Folder,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, updated)
}

// Delete handles DELETE /api/v1/attachments/:id
func (h *AttachmentHandler) Delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	if err := h.attachments.DeleteAttachment(c.Request().Context(), userID, id); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Folder string `json:"folder"`
}

// CreateFolder handles POST /api/v1/attachments/folders
func (h *AttachmentHandler) CreateFolder(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	var req CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	result, err := h.attachments.CreateFolder(c.Request().Context(), userID, req.Folder)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

// DeleteDirectory handles DELETE /api/v1/attachments/directory/:folder
func (h *AttachmentHandler) DeleteDirectory(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	result, err := h.attachments.DeleteDirectory(c.Request().Context(), userID, c.Param("folder"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
