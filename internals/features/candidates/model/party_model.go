package model

import (
	"time"

	"gorm.io/gorm"
)

type PartyModel struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ElectionID uint    `gorm:"not null;index;uniqueIndex:idx_parties_election_name;column:election_id" json:"electionId"`
	Name       string  `gorm:"size:255;not null;uniqueIndex:idx_parties_election_name" json:"name"`
	Color      string  `gorm:"size:7" json:"color"`
	Logo       *string `gorm:"size:500" json:"logo,omitempty"`
	IsActive   bool    `gorm:"not null;default:true;column:is_active" json:"isActive"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PartyModel) TableName() string { return "parties" }
