package models

import "time"

// Rarity tiers for collectible invention cards.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Difficulty tiers of the quiz questions that award cards.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RarityForDifficulty maps a question's difficulty tier to the rarity of the
// card it awards: hard questions yield legendary cards, medium rare, easy
// common. Unknown tiers fall back to common.
func RarityForDifficulty(d Difficulty) Rarity {
	switch d {
	case DifficultyHard:
		return RarityLegendary
	case DifficultyMedium:
		return RarityRare
	default:
		return RarityCommon
	}
}

// CollectibleCard is an invention card unlocked by answering a quiz question
// correctly. Cards belong to the user who collected them and are never
// removed.
type CollectibleCard struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	InventionID   string `gorm:"index;not null" json:"invention_id"`
	InventionName string `json:"invention_name"`
	Rarity        Rarity `gorm:"type:varchar(16);default:'common'" json:"rarity"`

	Unlocked     bool       `json:"unlocked" gorm:"default:true"`
	DateUnlocked *time.Time `json:"date_unlocked,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
