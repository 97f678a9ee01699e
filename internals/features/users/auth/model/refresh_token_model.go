package model

import "time"

// RefreshTokenModel stores the SHA-256 hash of issued refresh tokens; the raw
// token never touches the database. One row per active session, rotated on
// every refresh.
type RefreshTokenModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;column:user_id" json:"userId"`
	Token     string    `gorm:"size:128;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expiresAt"`
	UserAgent *string   `gorm:"size:255;column:user_agent" json:"userAgent,omitempty"`
	IP        *string   `gorm:"size:64;column:ip" json:"ip,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }
