package models

import "time"

// Attachment represents a stored file's metadata row. StorageKey locates the
// bytes on disk; Path is the denormalized folder string kept in sync with
// PathID on every move (nil PathID means the root folder "/").
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Kind        string    `gorm:"size:20;not null;index" json:"kind"`
	Size        int64     `gorm:"not null" json:"size"`
	Mime        string    `gorm:"size:100" json:"mime"`
	StorageKey  string    `gorm:"size:500;not null;uniqueIndex" json:"storage_key"`
	Path        string    `gorm:"size:500;not null" json:"path"`
	PathID      *uint     `gorm:"index" json:"path_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	UpdatedByID uint      `gorm:"not null" json:"updated_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User       User  `gorm:"foreignKey:UserID" json:"-"`
	CreatedBy  User  `gorm:"foreignKey:CreatedByID" json:"-"`
	UpdatedBy  User  `gorm:"foreignKey:UpdatedByID" json:"-"`
	PathRecord *Path `gorm:"foreignKey:PathID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
