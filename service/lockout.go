package service

import (
	"time"

	"campusflow/sched-api/model"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// RegisterLoginFailure bumps the failed-attempt counter for an account
// and arms the lock when the threshold is reached. Both statements are
// storage-side conditional updates, so two racing login attempts can't
// lose an increment the way a read-modify-write would
func RegisterLoginFailure(db *gorm.DB, userID string) error {
	now := time.Now()
	maxAttempts := viper.GetInt("security.max_login_attempts")
	lockFor := time.Duration(viper.GetInt("security.lock_minutes")) * time.Minute

	// An attempt arriving after an expired lock restarts the count at 1
	err := db.Model(model.User{}).
		Where("id = ? AND lock_until IS NOT NULL AND lock_until < ?", userID, now).
		Updates(map[string]any{
			"login_attempts": 0,
			"lock_until":     nil,
		}).Error
	if err != nil {
		return err
	}

	err = db.Model(model.User{}).
		Where("id = ?", userID).
		Update("login_attempts", gorm.Expr("login_attempts + 1")).
		Error
	if err != nil {
		return err
	}

	return db.Model(model.User{}).
		Where("id = ? AND login_attempts >= ? AND (lock_until IS NULL OR lock_until < ?)", userID, maxAttempts, now).
		Update("lock_until", now.Add(lockFor)).
		Error
}

// RegisterLoginSuccess clears the lockout bookkeeping and stamps the
// login time
func RegisterLoginSuccess(db *gorm.DB, userID string) error {
	return db.Model(model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"login_attempts": 0,
			"lock_until":     nil,
			"last_login":     time.Now(),
		}).Error
}
