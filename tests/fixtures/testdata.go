package fixtures

import (
	"time"

	"github.com/filevaultapp/filevault-backend/internal/models"
)

// UserBuilder creates test User instances with fluent API
type UserBuilder struct {
	user models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults
func NewUserBuilder() *UserBuilder {
	now := time.Now()
	return &UserBuilder{
		user: models.User{
			ID:        1,
			Email:     "user@example.com",
			Name:      "Test User",
			Password:  "$2a$12$not-a-real-hash",
			Role:      models.RoleMember,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the user ID
func (b *UserBuilder) WithID(id uint) *UserBuilder {
	b.user.ID = id
	return b
}

// WithEmail sets the user email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

// WithRole sets the user role
func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.user.Role = role
	return b
}

// WithPassword sets the stored password hash
func (b *UserBuilder) WithPassword(hash string) *UserBuilder {
	b.user.Password = hash
	return b
}

// Build returns the constructed User
func (b *UserBuilder) Build() *models.User {
	return &b.user
}

// BuildValue returns the constructed User as a value (not pointer)
func (b *UserBuilder) BuildValue() models.User {
	return b.user
}

// PathBuilder creates test Path instances with fluent API
type PathBuilder struct {
	path models.Path
}

// NewPathBuilder creates a new PathBuilder with sensible defaults
func NewPathBuilder() *PathBuilder {
	now := time.Now()
	return &PathBuilder{
		path: models.Path{
			ID:        1,
			Name:      "Documents",
			OwnerID:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the path ID
func (b *PathBuilder) WithID(id uint) *PathBuilder {
	b.path.ID = id
	return b
}

// WithName sets the folder name
func (b *PathBuilder) WithName(name string) *PathBuilder {
	b.path.Name = name
	return b
}

// WithOwnerID sets the owning user
func (b *PathBuilder) WithOwnerID(ownerID uint) *PathBuilder {
	b.path.OwnerID = ownerID
	return b
}

// WithParentID sets the parent path
func (b *PathBuilder) WithParentID(parentID *uint) *PathBuilder {
	b.path.ParentID = parentID
	return b
}

// Build returns the constructed Path
func (b *PathBuilder) Build() *models.Path {
	return &b.path
}

// BuildValue returns the constructed Path as a value (not pointer)
func (b *PathBuilder) BuildValue() models.Path {
	return b.path
}

// AttachmentBuilder creates test Attachment instances with fluent API
type AttachmentBuilder struct {
	attachment models.Attachment
}

// NewAttachmentBuilder creates a new AttachmentBuilder with sensible defaults
func NewAttachmentBuilder() *AttachmentBuilder {
	now := time.Now()
	return &AttachmentBuilder{
		attachment: models.Attachment{
			ID:          1,
			Name:        "document.pdf",
			Kind:        "document",
			Size:        1024,
			Mime:        "application/pdf",
			StorageKey:  "uploads/1700000000000-abc123.pdf",
			Path:        "/",
			UserID:      1,
			CreatedByID: 1,
			UpdatedByID: 1,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithID sets the attachment ID
func (b *AttachmentBuilder) WithID(id uint) *AttachmentBuilder {
	b.attachment.ID = id
	return b
}

// WithName sets the attachment name
func (b *AttachmentBuilder) WithName(name string) *AttachmentBuilder {
	b.attachment.Name = name
	return b
}

// WithKind sets the classified kind
func (b *AttachmentBuilder) WithKind(kind string) *AttachmentBuilder {
	b.attachment.Kind = kind
	return b
}

// WithSize sets the file size in bytes
func (b *AttachmentBuilder) WithSize(size int64) *AttachmentBuilder {
	b.attachment.Size = size
	return b
}

// WithStorageKey sets the storage key
func (b *AttachmentBuilder) WithStorageKey(key string) *AttachmentBuilder {
	b.attachment.StorageKey = key
	return b
}

// WithPath sets the denormalized folder path and path ID together
func (b *AttachmentBuilder) WithPath(path string, pathID *uint) *AttachmentBuilder {
	b.attachment.Path = path
	b.attachment.PathID = pathID
	return b
}

// WithOwner sets the owning user on all three user columns
func (b *AttachmentBuilder) WithOwner(userID uint) *AttachmentBuilder {
	b.attachment.UserID = userID
	b.attachment.CreatedByID = userID
	b.attachment.UpdatedByID = userID
	return b
}

// Build returns the constructed Attachment
func (b *AttachmentBuilder) Build() *models.Attachment {
	return &b.attachment
}

// BuildValue returns the constructed Attachment as a value (not pointer)
func (b *AttachmentBuilder) BuildValue() models.Attachment {
	return b.attachment
}

// RemarkBuilder creates test Remark instances with fluent API
type RemarkBuilder struct {
	remark models.Remark
}

// NewRemarkBuilder creates a new RemarkBuilder with sensible defaults
func NewRemarkBuilder() *RemarkBuilder {
	now := time.Now()
	return &RemarkBuilder{
		remark: models.Remark{
			ID:           1,
			AttachmentID: 1,
			Title:        "Review note",
			Message:      "Looks good to me.",
			CreatedByID:  1,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the remark ID
func (b *RemarkBuilder) WithID(id uint) *RemarkBuilder {
	b.remark.ID = id
	return b
}

// WithAttachmentID sets the attachment the remark belongs to
func (b *RemarkBuilder) WithAttachmentID(attachmentID uint) *RemarkBuilder {
	b.remark.AttachmentID = attachmentID
	return b
}

// WithTitle sets the remark title
func (b *RemarkBuilder) WithTitle(title string) *RemarkBuilder {
	b.remark.Title = title
	return b
}

// WithMessage sets the remark message
func (b *RemarkBuilder) WithMessage(message string) *RemarkBuilder {
	b.remark.Message = message
	return b
}

// WithCreatedByID sets the remark author
func (b *RemarkBuilder) WithCreatedByID(userID uint) *RemarkBuilder {
	b.remark.CreatedByID = userID
	return b
}

// Build returns the constructed Remark
func (b *RemarkBuilder) Build() *models.Remark {
	return &b.remark
}

// BuildValue returns the constructed Remark as a value (not pointer)
func (b *RemarkBuilder) BuildValue() models.Remark {
	return b.remark
}

// Helper functions for creating multiple test entities

// CreateAttachments creates a slice of attachments owned by the given user,
// with sequential IDs and unique storage keys
func CreateAttachments(userID uint, count int) []models.Attachment {
	attachments := make([]models.Attachment, count)
	for i := 0; i < count; i++ {
		attachments[i] = NewAttachmentBuilder().
			WithID(uint(i + 1)).
			WithName(generateFilename(i)).
			WithKind(generateKind(i)).
			WithStorageKey(generateStorageKey(i)).
			WithOwner(userID).
			BuildValue()
	}
	return attachments
}

// CreateRemarks creates a slice of remarks for a given attachment
func CreateRemarks(attachmentID, userID uint, count int) []models.Remark {
	remarks := make([]models.Remark, count)
	for i := 0; i < count; i++ {
		remarks[i] = NewRemarkBuilder().
			WithID(uint(i + 1)).
			WithAttachmentID(attachmentID).
			WithTitle(generateRemarkTitle(i)).
			WithCreatedByID(userID).
			BuildValue()
	}
	return remarks
}

// Helper functions for generating test data
func generateFilename(index int) string {
	names := []string{"report.pdf", "photo.png", "notes.txt", "demo.mp4", "archive.zip"}
	return names[index%len(names)]
}

func generateKind(index int) string {
	kinds := []string{"document", "image", "file", "video", "archive"}
	return kinds[index%len(kinds)]
}

func generateStorageKey(index int) string {
	keys := []string{
		"uploads/1700000000001-a1b2c3.pdf",
		"uploads/1700000000002-d4e5f6.png",
		"uploads/1700000000003-g7h8i9.txt",
		"uploads/1700000000004-j1k2l3.mp4",
		"uploads/1700000000005-m4n5o6.zip",
	}
	return keys[index%len(keys)]
}

func generateRemarkTitle(index int) string {
	titles := []string{
		"Review note",
		"Needs revision",
		"Approved",
		"Follow up",
		"Archived copy",
	}
	return titles[index%len(titles)]
}
