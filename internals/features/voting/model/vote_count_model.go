package model

import (
	"time"
)

/* ===================== Vote count statuses ===================== */

const (
	VoteCountDraft     = "DRAFT"
	VoteCountSubmitted = "SUBMITTED"
	VoteCountVerified  = "VERIFIED"
	VoteCountRejected  = "REJECTED"
)

// VoteCountModel is one candidate's tally in one committee.
// Supervisors move it DRAFT → SUBMITTED; only admins verify or reject.
type VoteCountModel struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ElectionID  uint       `gorm:"not null;index" json:"electionId"`
	CommitteeID uint       `gorm:"not null;uniqueIndex:idx_vote_counts_committee_candidate" json:"committeeId"`
	CandidateID uint       `gorm:"not null;uniqueIndex:idx_vote_counts_committee_candidate" json:"candidateId"`
	VoteCount   int        `gorm:"not null;default:0" json:"voteCount"`
	Status      string     `gorm:"size:20;not null;default:DRAFT" json:"status"`
	IsVerified  bool       `gorm:"not null;default:false" json:"isVerified"`
	EnteredBy   uint       `gorm:"not null" json:"enteredBy"`
	VerifiedBy  *uint      `json:"verifiedBy"`
	VerifiedAt  *time.Time `json:"verifiedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (VoteCountModel) TableName() string { return "vote_counts" }
