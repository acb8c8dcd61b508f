package services

import (
	"fmt"
	"testing"
	"time"

	"inventindia-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProgress{},
		&models.GameScore{},
		&models.CollectibleCard{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedUser inserts a registered user directly, bypassing the HTTP layer.
func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Slug:      uuid.NewString(),
		Email:     username + "@example.com",
		JoinDate:  now,
		LastLogin: now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedScore inserts a score row with an explicit play time.
func seedScore(t *testing.T, db *gorm.DB, userID string, gameType models.GameType, score int64, playedAt time.Time) {
	t.Helper()

	row := models.GameScore{
		ID:       uuid.NewString(),
		UserID:   userID,
		GameType: gameType,
		Score:    score,
		MaxScore: score + 100,
		PlayedAt: playedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed score for %s: %v", userID, err)
	}
}
