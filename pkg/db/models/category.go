package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the self-referencing catalog tree.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Slug      string     `gorm:"column:slug;uniqueIndex;not null"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	Deleted   bool       `gorm:"column:deleted;not null;default:false"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
