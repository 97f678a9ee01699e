package model

import (
	"time"
)

// GuaranteeGroupModel is a per-user bucket for organizing guarantees.
// Group names are unique within one owner.
type GuaranteeGroupModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_guarantee_groups_user_name" json:"userId"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_guarantee_groups_user_name" json:"name"`
	Color       string    `gorm:"size:7;not null;default:#3B82F6" json:"color"`
	Description *string   `gorm:"size:500" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (GuaranteeGroupModel) TableName() string { return "guarantee_groups" }
