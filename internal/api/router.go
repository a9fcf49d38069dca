package api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/filevaultapp/filevault-backend/internal/api/handlers"
	"github.com/filevaultapp/filevault-backend/internal/api/middleware"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/services"
	"github.com/filevaultapp/filevault-backend/internal/storage"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Logger      *slog.Logger
	// Security configuration
	JWTSecret      []byte
	TokenExpiry    time.Duration
	AllowedOrigins []string
	RateLimit      int // Requests per second
	RateBurst      int // Burst size for rate limiter
	// Public base URL prepended to storage keys in responses
	StorageBaseURL string
	UploadDir      string
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware, outermost first
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	}
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	pathRepo := repository.NewPathRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	remarkRepo := repository.NewRemarkRepository(cfg.DB)
	activityLogRepo := repository.NewActivityLogRepository(cfg.DB)

	// Services
	recorder := services.NewActivityRecorder(activityLogRepo, cfg.Logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenExpiry)
	attachmentService := services.NewAttachmentService(
		attachmentRepo, pathRepo, activityLogRepo,
		cfg.FileStorage, recorder, cfg.Logger, cfg.StorageBaseURL)
	remarkService := services.NewRemarkService(remarkRepo, attachmentRepo)
	pathService := services.NewPathService(pathRepo, cfg.FileStorage, recorder)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.UploadDir)
	authHandler := handlers.NewAuthHandler(authService, cfg.TokenExpiry)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	remarkHandler := handlers.NewRemarkHandler(remarkService)
	pathHandler := handlers.NewPathHandler(pathService)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// Stored files are served directly under /uploads
	e.Static("/uploads", cfg.FileStorage.DiskPath("uploads"))

	api := e.Group("/api/v1")
	authRequired := middleware.JWTAuth(cfg.JWTSecret, cfg.Logger)

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authRequired)

	// Attachment routes
	attachments := api.Group("/attachments", authRequired)
	attachments.POST("", attachmentHandler.Upload)
	attachments.GET("", attachmentHandler.List)
	attachments.POST("/folders", attachmentHandler.CreateFolder)
	attachments.GET("/directory/:folder", attachmentHandler.ListByDirectory)
	attachments.DELETE("/directory/:folder", attachmentHandler.DeleteDirectory)
	attachments.GET("/:id", attachmentHandler.GetOne)
	attachments.PATCH("/:id", attachmentHandler.Update)
	attachments.DELETE("/:id", attachmentHandler.Delete)

	// Remark routes (nested under attachments)
	attachments.POST("/:id/remarks", remarkHandler.Create)
	attachments.GET("/:id/remarks", remarkHandler.List)

	// Path routes
	paths := api.Group("/paths", authRequired)
	paths.POST("", pathHandler.Create)
	paths.GET("", pathHandler.List)

	return e
}
