package service

import (
	"time"

	"campusflow/sched-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenCleanup periodically clears verification token hashes whose
// expiry has passed. Consuming a token clears its fields inline, this
// only catches the ones nobody ever clicked
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			err := db.Model(model.User{}).
				Where("verification_token_hash IS NOT NULL AND verification_token_expires_at < ?", time.Now()).
				Updates(map[string]any{
					"verification_token_hash":       nil,
					"verification_token_expires_at": nil,
				}).Error
			if err != nil {
				zap.L().Error("Failed to clean up expired verification tokens", zap.Error(err))
			}
		}
	}()
}

// AccountCleanup automatically deletes accounts that were registered
// but never verified within the grace window. Verified accounts are
// never touched
func AccountCleanup(t time.Duration, grace time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			r := db.
				Where("verified = ? AND created_at < ?", false, time.Now().Add(-grace)).
				Delete(&model.User{})
			if r.Error != nil {
				zap.L().Error("Failed to delete unverified accounts", zap.Error(r.Error))
				continue
			}

			if r.RowsAffected > 0 {
				zap.L().Debug("Account cleanup finished", zap.Int64("deleted", r.RowsAffected))
			}
		}
	}()
}
