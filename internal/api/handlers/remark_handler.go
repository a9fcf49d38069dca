package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/filevaultapp/filevault-backend/internal/api/response"
	"github.com/filevaultapp/filevault-backend/internal/services"
)

// RemarkHandler handles remark-related HTTP requests
type RemarkHandler struct {
	remarks *services.RemarkService
}

// NewRemarkHandler creates a new RemarkHandler
func NewRemarkHandler(remarks *services.RemarkService) *RemarkHandler {
	return &RemarkHandler{remarks: remarks}
}

// CreateRemarkRequest represents a remark creation request
type CreateRemarkRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Create handles POST /api/v1/attachments/:id/remarks
func (h *RemarkHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	attachmentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	var req CreateRemarkRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	remark, err := h.remarks.Create(c.Request().Context(), userID, attachmentID, req.Title, req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, remark)
}

// List handles GET /api/v1/attachments/:id/remarks
func (h *RemarkHandler) List(c echo.Context) error {
	attachmentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	page, err := h.remarks.ListByAttachment(c.Request().Context(), attachmentID,
		queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, page)
}
