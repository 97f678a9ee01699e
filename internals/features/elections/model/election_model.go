package model

import (
	"time"

	"gorm.io/gorm"
)

// Election lifecycle statuses.
const (
	ElectionStatusSetup     = "SETUP"
	ElectionStatusGuarantee = "GUARANTEE_PHASE"
	ElectionStatusVotingDay = "VOTING_DAY"
	ElectionStatusCounting  = "COUNTING"
	ElectionStatusClosed    = "CLOSED"
)

type ElectionModel struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Status       string         `gorm:"size:20;not null;default:'SETUP'" json:"status"`
	VotingMode   string         `gorm:"size:50;column:voting_mode" json:"votingMode"`
	ElectionDate *time.Time     `gorm:"type:date;column:election_date" json:"electionDate,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ElectionModel) TableName() string { return "elections" }

// CurrentElection is the conventional singleton: first election by creation.
func CurrentElection(db *gorm.DB) (*ElectionModel, error) {
	var e ElectionModel
	if err := db.Order("id").First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
