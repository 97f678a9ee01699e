package model

import (
	"time"

	"gorm.io/gorm"
)

/* ===================== Guarantee statuses ===================== */

const (
	GuaranteeStatusPending    = "PENDING"
	GuaranteeStatusGuaranteed = "GUARANTEED"
)

const (
	ConfirmationPending      = "PENDING"
	ConfirmationConfirmed    = "CONFIRMED"
	ConfirmationNotAvailable = "NOT_AVAILABLE"
)

func ValidGuaranteeStatus(s string) bool {
	return s == GuaranteeStatusPending || s == GuaranteeStatusGuaranteed
}

func ValidConfirmationStatus(s string) bool {
	return s == ConfirmationPending || s == ConfirmationConfirmed || s == ConfirmationNotAvailable
}

/* ===================== Model ===================== */

// GuaranteeModel is a canvasser's pledge record for one elector.
// One collector records at most one guarantee per elector.
type GuaranteeModel struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"not null;uniqueIndex:idx_guarantees_user_elector" json:"userId"`
	ElectorKocID       string         `gorm:"size:20;not null;uniqueIndex:idx_guarantees_user_elector" json:"electorKocId"`
	GuaranteeStatus    string         `gorm:"size:20;not null;default:PENDING" json:"guaranteeStatus"`
	ConfirmationStatus string         `gorm:"size:20;not null;default:PENDING" json:"confirmationStatus"`
	GroupID            *uint          `gorm:"index" json:"groupId"`
	Mobile             *string        `gorm:"size:20" json:"mobile"`
	QuickNote          *string        `gorm:"size:500" json:"quickNote"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GuaranteeModel) TableName() string { return "guarantees" }
