package model

import (
	"time"
)

/* ===================== Entry statuses ===================== */

const (
	EntryInProgress = "IN_PROGRESS"
	EntryCompleted  = "COMPLETED"
	EntryVerified   = "VERIFIED"
)

// CommitteeVoteEntryModel is the ballot-box summary for one committee.
// valid_ballots is always total minus invalid.
type CommitteeVoteEntryModel struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ElectionID       uint       `gorm:"not null;uniqueIndex:idx_vote_entries_election_committee" json:"electionId"`
	CommitteeID      uint       `gorm:"not null;uniqueIndex:idx_vote_entries_election_committee" json:"committeeId"`
	Status           string     `gorm:"size:20;not null;default:IN_PROGRESS" json:"status"`
	TotalBallotsCast int        `gorm:"not null;default:0" json:"totalBallotsCast"`
	InvalidBallots   int        `gorm:"not null;default:0" json:"invalidBallots"`
	ValidBallots     int        `gorm:"not null;default:0" json:"validBallots"`
	Notes            *string    `gorm:"size:1000" json:"notes"`
	EnteredBy        uint       `gorm:"not null" json:"enteredBy"`
	VerifiedBy       *uint      `json:"verifiedBy"`
	VerifiedAt       *time.Time `json:"verifiedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (CommitteeVoteEntryModel) TableName() string { return "committee_vote_entries" }
