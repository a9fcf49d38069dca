package services

import (
	"time"

	"github.com/filevaultapp/filevault-backend/internal/models"
)

// UserSummary is the public shape of a user in API responses
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRef is a minimal user reference used in audit fields
type UserRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AttachmentDTO is the wire representation of an attachment
type AttachmentDTO struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Size       int64        `json:"size"`
	Mime       string       `json:"mime"`
	StorageKey string       `json:"storageKey"`
	StorageURL string       `json:"storageUrl"`
	Path       string       `json:"path"`
	PathID     *uint        `json:"pathId"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedBy  *UserRef     `json:"createdBy,omitempty"`
	UpdatedBy  *UserRef     `json:"updatedBy,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// DirectoryDTO describes a folder together with its attachment count
type DirectoryDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	DiskPath  string    `json:"diskPath"`
	ItemCount int64     `json:"itemCount"`
	CreatedBy *UserRef  `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PageMeta carries pagination totals alongside a page of results
type PageMeta struct {
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// PaginatedAttachments is the response shape of attachment listings. The
// directory list rides along so clients can render the folder tree without a
// second request.
type PaginatedAttachments struct {
	Directories []DirectoryDTO  `json:"directories"`
	Data        []AttachmentDTO `json:"data"`
	Meta        PageMeta        `json:"meta"`
}

// FolderResult is returned when a folder is created or resolved
type FolderResult struct {
	Folder   string `json:"folder"`
	DiskPath string `json:"diskPath"`
	PathID   uint   `json:"pathId"`
}

// DeleteDirectoryResult reports what a directory delete removed
type DeleteDirectoryResult struct {
	Folder       string `json:"folder"`
	DeletedFiles int    `json:"deletedFiles"`
}

// ActivityLogDTO is the wire representation of an activity log entry
type ActivityLogDTO struct {
	ID           uint      `json:"id"`
	Action       string    `json:"action"`
	Detail       string    `json:"detail"`
	UserID       uint      `json:"userId"`
	AttachmentID *uint     `json:"attachmentId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PaginatedLogs is a page of activity log entries
type PaginatedLogs struct {
	Data []ActivityLogDTO `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// AttachmentDetail is a single attachment optionally bundled with its
// recent activity
type AttachmentDetail struct {
	Attachment AttachmentDTO  `json:"attachment"`
	Logs       *PaginatedLogs `json:"logs,omitempty"`
}

// RemarkDTO is the wire representation of a remark
type RemarkDTO struct {
	ID           uint      `json:"id"`
	AttachmentID uint      `json:"attachmentId"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedBy    *UserRef  `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PaginatedRemarks is a page of remarks
type PaginatedRemarks struct {
	Data []RemarkDTO `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// AuthPayload is returned on successful registration or login
type AuthPayload struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// newPageMeta computes pagination totals. TotalPages is never below 1 so an
// empty result still renders as a single empty page.
func newPageMeta(totalCount int64, page, limit int) PageMeta {
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
	}
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUserRef(u *models.User) *UserRef {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name}
}

func toRemarkDTO(r *models.Remark) RemarkDTO {
	return RemarkDTO{
		ID:           r.ID,
		AttachmentID: r.AttachmentID,
		Title:        r.Title,
		Message:      r.Message,
		CreatedBy:    toUserRef(&r.CreatedBy),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toActivityLogDTO(l *models.ActivityLog) ActivityLogDTO {
	return ActivityLogDTO{
		ID:           l.ID,
		Action:       l.Action,
		Detail:       l.Detail,
		UserID:       l.UserID,
		AttachmentID: l.AttachmentID,
		CreatedAt:    l.CreatedAt,
	}
}
