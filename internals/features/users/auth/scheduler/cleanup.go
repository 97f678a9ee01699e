package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"intikhab_backend/internals/configs"
	"intikhab_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler periodically removes expired rows from
// token_blacklist and refresh_tokens.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		interval := time.Duration(configs.GetInt("TOKEN_CLEANUP_INTERVAL_HOURS", 24)) * time.Hour

		for {
			log.Println("[CLEANUP] Purging expired auth tokens...")

			now := time.Now()

			var expired []model.TokenBlacklist
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", now).
				Limit(100).
				Find(&expired).Error; err != nil {
				log.Printf("[CLEANUP ERROR] fetch expired blacklist rows: %v", err)
			} else if len(expired) > 0 {
				if err := db.Delete(&expired).Error; err != nil {
					log.Printf("[CLEANUP ERROR] delete blacklist rows: %v", err)
				} else {
					log.Printf("[CLEANUP] %d expired blacklist tokens removed", len(expired))
				}
			}

			if err := db.
				Where("expires_at < ?", now).
				Delete(&model.RefreshTokenModel{}).Error; err != nil {
				log.Printf("[CLEANUP ERROR] delete refresh tokens: %v", err)
			}

			time.Sleep(interval)
		}
	}()
}
