package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== Audit actions ===================== */

const (
	AuditCreated  = "CREATED"
	AuditUpdated  = "UPDATED"
	AuditVerified = "VERIFIED"
	AuditRejected = "REJECTED"
)

// VoteCountAuditModel records every vote-count mutation with the
// request origin IP.
type VoteCountAuditModel struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	VoteCountID uint           `gorm:"not null;index" json:"voteCountId"`
	ActorID     uint           `gorm:"not null" json:"actorId"`
	Action      string         `gorm:"size:20;not null" json:"action"`
	OldValue    datatypes.JSON `json:"oldValue"`
	NewValue    datatypes.JSON `json:"newValue"`
	IPAddress   string         `gorm:"size:45" json:"ipAddress"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (VoteCountAuditModel) TableName() string { return "vote_count_audits" }
