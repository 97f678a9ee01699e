package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== Attendance statuses ===================== */

const (
	AttendanceAttended = "ATTENDED"
	AttendancePending  = "PENDING"
)

// AttendanceModel is one voting-day check-in record.
type AttendanceModel struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ElectorKocID string         `gorm:"size:20;not null;index" json:"electorKocId"`
	CommitteeID  uint           `gorm:"not null;index" json:"committeeId"`
	Status       string         `gorm:"size:20;not null;default:ATTENDED" json:"status"`
	AttendedAt   time.Time      `json:"attendedAt"`
	MarkedBy     uint           `gorm:"not null" json:"markedBy"`
	Notes        *string        `gorm:"size:1000" json:"notes"`
	DeviceInfo   datatypes.JSON `json:"deviceInfo"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (AttendanceModel) TableName() string { return "attendances" }
