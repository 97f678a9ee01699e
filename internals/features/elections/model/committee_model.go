package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderMixed  = "MIXED"
)

type CommitteeModel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ElectionID uint   `gorm:"not null;index;uniqueIndex:idx_committees_election_code;column:election_id" json:"electionId"`
	Code       string `gorm:"size:50;not null;uniqueIndex:idx_committees_election_code" json:"code"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Gender     string `gorm:"size:10;not null;default:'MIXED'" json:"gender"`
	Location   string `gorm:"size:255" json:"location"`

	// Optional KOC-ID range used by auto-assign.
	ElectorsFrom *string `gorm:"size:20;column:electors_from" json:"electorsFrom,omitempty"`
	ElectorsTo   *string `gorm:"size:20;column:electors_to" json:"electorsTo,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CommitteeModel) TableName() string { return "committees" }
