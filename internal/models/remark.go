package models

import "time"

// Remark represents a comment attached to an attachment
type Remark struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AttachmentID uint      `gorm:"not null;index" json:"attachment_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	CreatedByID  uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Attachment Attachment `gorm:"foreignKey:AttachmentID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedBy  User       `gorm:"foreignKey:CreatedByID" json:"-"`
}

// TableName returns the table name for Remark
func (Remark) TableName() string {
	return "remarks"
}
