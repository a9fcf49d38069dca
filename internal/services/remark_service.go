package services

import (
	"context"
	"errors"

	apperrors "github.com/filevaultapp/filevault-backend/internal/errors"
	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/validator"
)

// RemarkService implements remarks attached to files
type RemarkService struct {
	remarks     repository.RemarkRepository
	attachments repository.AttachmentRepository
}

// NewRemarkService creates a new RemarkService
func NewRemarkService(remarks repository.RemarkRepository, attachments repository.AttachmentRepository) *RemarkService {
	return &RemarkService{remarks: remarks, attachments: attachments}
}

// Create adds a remark to an attachment. The attachment must exist.
func (s *RemarkService) Create(ctx context.Context, userID, attachmentID uint, title, message string) (*RemarkDTO, error) {
	title = validator.SanitizeString(title, 200)
	message = validator.SanitizeString(message, 5000)
	if title == "" {
		return nil, invalidInput("title is required")
	}
	if message == "" {
		return nil, invalidInput("message is required")
	}

	if _, err := s.attachments.FindByID(ctx, attachmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	remark := &models.Remark{
		AttachmentID: attachmentID,
		Title:        title,
		Message:      message,
		CreatedByID:  userID,
	}
	if err := s.remarks.Create(ctx, remark); err != nil {
		return nil, err
	}

	dto := toRemarkDTO(remark)
	return &dto, nil
}

// ListByAttachment returns a page of remarks for an attachment, newest first
func (s *RemarkService) ListByAttachment(ctx context.Context, attachmentID uint, page, limit int) (*PaginatedRemarks, error) {
	if _, err := s.attachments.FindByID(ctx, attachmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound, "attachment not found", apperrors.CodeNotFound)
		}
		return nil, err
	}

	page, limit = validator.ValidatePagination(page, limit)
	remarks, total, err := s.remarks.ListByAttachment(ctx, attachmentID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	result := &PaginatedRemarks{
		Data: make([]RemarkDTO, 0, len(remarks)),
		Meta: newPageMeta(total, page, limit),
	}
	for i := range remarks {
		result.Data = append(result.Data, toRemarkDTO(&remarks[i]))
	}
	return result, nil
}
