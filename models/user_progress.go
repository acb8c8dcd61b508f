package models

import (
	"time"
)

// PointsPerLevel is how many total points advance the level by one.
const PointsPerLevel = 1000

// LevelForPoints derives a user's level from their lifetime points:
// 0–999 → 1, 1000–1999 → 2, and so on.
func LevelForPoints(totalPoints int64) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return int(totalPoints/PointsPerLevel) + 1
}

// UserProgress tracks one user's cumulative play history (denormalized for
// performance). Exactly one row per user, created zeroed on first login and
// mutated only by the score-recording path.
type UserProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// Core progression
	TotalPoints    int64 `json:"total_points" gorm:"default:0"`
	Level          int   `json:"level" gorm:"default:1"`
	GamesCompleted int64 `json:"games_completed" gorm:"default:0"`

	// Consecutive-day play streak
	StreakDays   int        `json:"streak_days" gorm:"default:0"`
	LastPlayDate *time.Time `json:"last_play_date,omitempty"`

	AchievementsUnlocked []string `json:"achievements_unlocked" gorm:"type:jsonb;serializer:json"`
	InventionsDiscovered []string `json:"inventions_discovered" gorm:"type:jsonb;serializer:json"`

	// Relationships
	GameScores     []GameScore       `json:"game_scores,omitempty" gorm:"foreignKey:UserID;references:UserID"`
	CardsCollected []CollectibleCard `json:"cards_collected,omitempty" gorm:"foreignKey:UserID;references:UserID"`

	Timestamps
}
