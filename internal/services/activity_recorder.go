package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
)

// ActivityRecorder writes activity log entries. Logging must never fail a
// request, so failures are reported through the logger and otherwise dropped.
type ActivityRecorder struct {
	repo   repository.ActivityLogRepository
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewActivityRecorder creates a new ActivityRecorder
func NewActivityRecorder(repo repository.ActivityLogRepository, logger *slog.Logger) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, logger: logger}
}

// Record writes an entry in the background without blocking the caller. The
// write outlives the request context so an early client disconnect does not
// lose the entry.
func (r *ActivityRecorder) Record(ctx context.Context, action, detail string, userID uint, attachmentID *uint) {
	entry := &models.ActivityLog{
		Action:       action,
		Detail:       detail,
		UserID:       userID,
		AttachmentID: attachmentID,
	}
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.repo.Create(detached, entry); err != nil {
			r.logger.Warn("failed to record activity",
				slog.String("action", action),
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// RecordNow writes an entry before returning. Used for actions whose log
// entry must exist when the response goes out, such as folder creation.
func (r *ActivityRecorder) RecordNow(ctx context.Context, action, detail string, userID uint, attachmentID *uint) {
	entry := &models.ActivityLog{
		Action:       action,
		Detail:       detail,
		UserID:       userID,
		AttachmentID: attachmentID,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Warn("failed to record activity",
			slog.String("action", action),
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
	}
}

// Wait blocks until all background writes have finished
func (r *ActivityRecorder) Wait() {
	r.wg.Wait()
}
