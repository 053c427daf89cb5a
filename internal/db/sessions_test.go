package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *User {
	t.Helper()
	user := &User{Email: email, IsActive: true}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestSessionLifecycle(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "session@example.com")

	token, err := CreateSession(gdb, user, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if token == "" {
		t.Fatal("CreateSession returned an empty token")
	}

	got, err := SessionUser(gdb, token)
	if err != nil {
		t.Fatalf("SessionUser: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("SessionUser resolved user %s, want %s", got.ID, user.ID)
	}

	if err := DeleteSession(gdb, token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := SessionUser(gdb, token); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted session still resolves, err = %v", err)
	}
}

func TestSessionUserRejectsExpiredToken(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "expired@example.com")

	token, err := CreateSession(gdb, user, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := SessionUser(gdb, token); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expired session resolved, err = %v", err)
	}
}

func TestSessionCleanupPurgesOnlyExpiredRows(t *testing.T) {
	gdb := openTestDB(t)
	user := createTestUser(t, gdb, "cleanup@example.com")

	expired, err := CreateSession(gdb, user, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	live, err := CreateSession(gdb, user, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := runSessionCleanupOnce(gdb); err != nil {
		t.Fatalf("runSessionCleanupOnce: %v", err)
	}

	var n int64
	gdb.Model(&Session{}).Where("token = ?", expired).Count(&n)
	if n != 0 {
		t.Errorf("expired session row survived cleanup")
	}
	gdb.Model(&Session{}).Where("token = ?", live).Count(&n)
	if n != 1 {
		t.Errorf("live session row was purged")
	}
}
