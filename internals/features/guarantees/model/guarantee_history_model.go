package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== History actions ===================== */

const (
	HistoryCreated             = "CREATED"
	HistoryUpdated             = "UPDATED"
	HistoryStatusChanged       = "STATUS_CHANGED"
	HistoryGroupChanged        = "GROUP_CHANGED"
	HistoryNoteAdded           = "NOTE_ADDED"
	HistoryContactUpdated      = "CONTACT_UPDATED"
	HistoryConfirmationChanged = "CONFIRMATION_CHANGED"
	HistoryDeleted             = "DELETED"
)

// GuaranteeHistoryModel is the append-only audit trail for guarantee mutations.
// Deletes are recorded before the row is removed.
type GuaranteeHistoryModel struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GuaranteeID uint           `gorm:"not null;index" json:"guaranteeId"`
	ActorID     uint           `gorm:"not null" json:"actorId"`
	Action      string         `gorm:"size:30;not null" json:"action"`
	OldValue    datatypes.JSON `json:"oldValue"`
	NewValue    datatypes.JSON `json:"newValue"`
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (GuaranteeHistoryModel) TableName() string { return "guarantee_history" }
