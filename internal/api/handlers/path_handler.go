package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/filevaultapp/filevault-backend/internal/api/response"
	"github.com/filevaultapp/filevault-backend/internal/services"
)

// PathHandler handles path-related HTTP requests
type PathHandler struct {
	paths *services.PathService
}

// NewPathHandler creates a new PathHandler
func NewPathHandler(paths *services.PathService) *PathHandler {
	return &PathHandler{paths: paths}
}

// CreatePathRequest represents a path creation request
type CreatePathRequest struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parentId"`
}

// Create handles POST /api/v1/paths
func (h *PathHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	var req CreatePathRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	created, err := h.paths.Create(c.Request().Context(), userID, req.Name, req.ParentID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, created)
}

// List handles GET /api/v1/paths
func (h *PathHandler) List(c echo.Context) error {
	directories, err := h.paths.ListDirectories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, directories)
}
