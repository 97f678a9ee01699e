package model

import (
	"time"

	"gorm.io/datatypes"
)

// ReportSnapshotModel is a frozen copy of a dashboard payload, taken
// on demand for later comparison.
type ReportSnapshotModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Kind      string         `gorm:"size:50;not null;index" json:"kind"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedBy uint           `gorm:"not null" json:"createdBy"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (ReportSnapshotModel) TableName() string { return "report_snapshots" }
