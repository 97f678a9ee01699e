package model

import (
	"time"

	"gorm.io/gorm"
)

type CandidateModel struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	ElectionID      uint    `gorm:"not null;index;uniqueIndex:idx_candidates_election_number;column:election_id" json:"electionId"`
	Name            string  `gorm:"size:255;not null" json:"name"`
	CandidateNumber int     `gorm:"not null;uniqueIndex:idx_candidates_election_number;column:candidate_number" json:"candidateNumber"`
	PartyID         *uint   `gorm:"index;column:party_id" json:"partyId,omitempty"`
	Photo           *string `gorm:"size:500" json:"photo,omitempty"`
	IsActive        bool    `gorm:"not null;default:true;column:is_active" json:"isActive"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CandidateModel) TableName() string { return "candidates" }
