package model

import (
	"time"
)

// GuaranteeNoteModel is an append-only follow-up note on a guarantee.
type GuaranteeNoteModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GuaranteeID uint      `gorm:"not null;index" json:"guaranteeId"`
	AuthorID    uint      `gorm:"not null" json:"authorId"`
	Content     string    `gorm:"size:1000;not null" json:"content"`
	IsImportant bool      `gorm:"not null;default:false" json:"isImportant"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (GuaranteeNoteModel) TableName() string { return "guarantee_notes" }
