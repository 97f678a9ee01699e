package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== Results statuses ===================== */

const (
	ResultsDraft       = "DRAFT"
	ResultsPreliminary = "PRELIMINARY"
	ResultsFinal       = "FINAL"
	ResultsPublished   = "PUBLISHED"
)

// ElectionResultsModel is the aggregate results record for an election.
// One row per election; results_data holds the ranked candidate table.
type ElectionResultsModel struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	ElectionID              uint           `gorm:"not null;uniqueIndex" json:"electionId"`
	Status                  string         `gorm:"size:20;not null;default:DRAFT" json:"status"`
	TotalRegisteredElectors int64          `gorm:"not null;default:0" json:"totalRegisteredElectors"`
	TotalAttendance         int64          `gorm:"not null;default:0" json:"totalAttendance"`
	TotalBallotsCast        int64          `gorm:"not null;default:0" json:"totalBallotsCast"`
	ValidBallots            int64          `gorm:"not null;default:0" json:"validBallots"`
	InvalidBallots          int64          `gorm:"not null;default:0" json:"invalidBallots"`
	TurnoutPercentage       float64        `gorm:"not null;default:0" json:"turnoutPercentage"`
	ResultsData             datatypes.JSON `json:"resultsData"`
	GeneratedBy             *uint          `json:"generatedBy"`
	GeneratedAt             *time.Time     `json:"generatedAt"`
	PublishedBy             *uint          `json:"publishedBy"`
	PublishedAt             *time.Time     `json:"publishedAt"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

func (ElectionResultsModel) TableName() string { return "election_results" }
