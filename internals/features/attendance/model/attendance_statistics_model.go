package model

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceStatisticsModel is the per-committee cached attendance rollup.
// Reads within the TTL window are served from this row; stale reads
// recompute under a row lock.
type AttendanceStatisticsModel struct {
	CommitteeID          uint           `gorm:"primaryKey;autoIncrement:false" json:"committeeId"`
	TotalElectors        int64          `gorm:"not null;default:0" json:"totalElectors"`
	TotalAttended        int64          `gorm:"not null;default:0" json:"totalAttended"`
	AttendancePercentage float64        `gorm:"not null;default:0" json:"attendancePercentage"`
	HourlyBreakdown      datatypes.JSON `json:"hourlyBreakdown"`
	LastUpdated          time.Time      `json:"lastUpdated"`
}

func (AttendanceStatisticsModel) TableName() string { return "attendance_statistics" }
