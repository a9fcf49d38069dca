package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filevaultapp/filevault-backend/internal/api/middleware"
	"github.com/filevaultapp/filevault-backend/internal/api/response"
	"github.com/filevaultapp/filevault-backend/internal/services"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	auth        *services.AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenExpiry: tokenExpiry}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setTokenCookie stores the JWT in an HTTP-only cookie so browser clients
// need no token handling of their own
func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
	})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	payload, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	h.setTokenCookie(c, payload.Token)
	return response.Created(c, payload)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	payload, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	h.setTokenCookie(c, payload.Token)
	return response.Success(c, payload)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return response.SuccessWithMessage(c, nil, "logged out")
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(middleware.UserIDKey).(uint)
	if !ok {
		return response.Unauthorized(c, "missing authentication")
	}

	profile, err := h.auth.Profile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
