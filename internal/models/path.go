package models

import "time"

// Path represents a named folder owned by a user. The schema allows nesting
// through ParentID, but the attachment API only ever creates flat folders.
type Path struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_paths_owner_name" json:"name"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_paths_owner_name" json:"owner_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Owner  User  `gorm:"foreignKey:OwnerID" json:"-"`
	Parent *Path `gorm:"foreignKey:ParentID" json:"-"`
}

// TableName returns the table name for Path
func (Path) TableName() string {
	return "paths"
}
