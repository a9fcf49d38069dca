package models

import "time"

// Activity log action taxonomy
const (
	ActionAttachmentUpload = "attachment.upload"
	ActionAttachmentUpdate = "attachment.update"
	ActionAttachmentDelete = "attachment.delete"
	ActionFolderCreate     = "folder.create"
	ActionFolderDelete     = "folder.delete"
	ActionPathCreate       = "path.create"
)

// ActivityLog is an append-only audit entry. AttachmentID is left nil for
// entries whose attachment no longer exists (e.g. delete actions).
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Action       string    `gorm:"size:50;not null;index" json:"action"`
	Detail       string    `gorm:"size:500;not null" json:"detail"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	AttachmentID *uint     `gorm:"index" json:"attachment_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
