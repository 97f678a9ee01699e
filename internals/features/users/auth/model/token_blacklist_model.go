package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist holds access tokens invalidated by logout. Rows are removed
// by the cleanup scheduler once expired.
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;not null;index" json:"token"`
	ExpiredAt time.Time      `gorm:"not null;column:expired_at" json:"expiredAt"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
