package models

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GameType identifies which game module produced a score. The set is closed:
// unknown types are rejected at the recording boundary instead of being stored
// as free-form strings.
type GameType string

const (
	GameDiscovery GameType = "discovery"
	GameBuild     GameType = "build"
	GameWhatIf    GameType = "whatif"
	GameChat      GameType = "chat"
	GameTimeline  GameType = "timeline"
	GameChallenge GameType = "challenge"
)

// AllGameTypes lists every playable game module, in display order.
var AllGameTypes = []GameType{
	GameDiscovery,
	GameBuild,
	GameTimeline,
	GameWhatIf,
	GameChat,
	GameChallenge,
}

// Valid reports whether t is one of the known game modules.
func (t GameType) Valid() bool {
	switch t {
	case GameDiscovery, GameBuild, GameWhatIf, GameChat, GameTimeline, GameChallenge:
		return true
	}
	return false
}

// Label returns the display name shown in leaderboard filters and admin
// breakdowns.
func (t GameType) Label() string {
	switch t {
	case GameDiscovery:
		return "Discovery Quest"
	case GameBuild:
		return "Build It Right"
	case GameTimeline:
		return "Timeline Hunt"
	case GameWhatIf:
		return "What-If Sandbox"
	case GameChat:
		return "Inventor Chat"
	case GameChallenge:
		return "Invent Challenge"
	default:
		return cases.Title(language.English).String(string(t))
	}
}

// GameScore records a single completed play session. Rows are immutable once
// created; a user's history only ever grows.
type GameScore struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	GameType GameType `gorm:"type:varchar(16);index;not null" json:"game_type"`
	Score    int64    `json:"score"`
	MaxScore int64    `json:"max_score"`

	// CompletionTime is how long the session took, in seconds.
	CompletionTime int    `json:"completion_time" gorm:"default:0"`
	Difficulty     string `json:"difficulty,omitempty" gorm:"type:varchar(16)"`

	// Details holds module-specific session data as a JSON document.
	// Nullable: most payloads omit it, and the jsonb column only accepts
	// NULL or valid JSON, never ''.
	Details *string `json:"details,omitempty" gorm:"type:jsonb"`

	PlayedAt time.Time `gorm:"index;not null" json:"played_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
