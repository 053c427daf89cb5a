package db

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateSession issues a new login session for the user and returns
// the opaque token to set as the cookie value.
func CreateSession(db *gorm.DB, user *User, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)

	sess := &Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(sess).Error; err != nil {
		return "", err
	}
	return token, nil
}

// SessionUser resolves a session token to its user. Expired or
// unknown tokens return gorm.ErrRecordNotFound.
func SessionUser(db *gorm.DB, token string) (*User, error) {
	var sess Session
	err := db.Where("token = ? AND expires_at > ?", token, time.Now()).
		Preload("User").First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess.User, nil
}

// DeleteSession removes a session row, signing the holder out.
func DeleteSession(db *gorm.DB, token string) error {
	return db.Where("token = ?", token).Delete(&Session{}).Error
}

// runSessionCleanupOnce deletes sessions whose expiry has passed.
func runSessionCleanupOnce(db *gorm.DB) error {
	return db.Where("expires_at <= ?", time.Now()).Delete(&Session{}).Error
}

// StartSessionCleanupWorker launches a background goroutine that
// purges expired sessions once at startup and then once per day.
func StartSessionCleanupWorker(db *gorm.DB, log *zap.Logger) {
	go func() {
		if err := runSessionCleanupOnce(db); err != nil {
			log.Error("session cleanup failed (startup)", zap.Error(err))
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := runSessionCleanupOnce(db); err != nil {
				log.Error("session cleanup failed", zap.Error(err))
			}
		}
	}()
}
