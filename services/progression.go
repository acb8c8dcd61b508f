package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventindia-system/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validation errors returned by the score-recording boundary. Game modules
// are no longer trusted blindly: a payload that fails these checks is
// rejected before anything is persisted.
var (
	ErrUnknownGameType = errors.New("unknown game type")
	ErrInvalidScore    = errors.New("score must satisfy 0 <= score <= max_score")
)

// ScoreInput is the completion payload a game module hands over when a play
// session finishes. GameType comes from the caller's context, not the game's
// own payload.
type ScoreInput struct {
	GameType       models.GameType `json:"-"`
	Score          int64           `json:"score"`
	MaxScore       int64           `json:"max_score"`
	CompletionTime int             `json:"time"`
	Difficulty     string          `json:"difficulty,omitempty"`
	Details        string          `json:"details,omitempty"`
}

// CardInput describes a correctly-answered quiz question that awards a
// collectible card.
type CardInput struct {
	InventionID   string            `json:"invention_id"`
	InventionName string            `json:"invention_name"`
	Difficulty    models.Difficulty `json:"difficulty"`
}

type ProgressionService struct {
	DB *gorm.DB

	// RDB mirrors the all-time ranking into a Redis sorted set. Optional;
	// nil disables the mirror and everything falls back to SQL.
	RDB *redis.Client

	// Live receives game-played notifications for the dashboard counters.
	// Optional.
	Live *LiveStatsService
}

func NewProgressionService(db *gorm.DB, rdb *redis.Client, live *LiveStatsService) *ProgressionService {
	return &ProgressionService{DB: db, RDB: rdb, Live: live}
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(userID string) (*models.UserProgress, error) {
	return ensureProgressRecord(s.DB, userID)
}

func ensureProgressRecord(db *gorm.DB, userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := db.Where("user_id = ?", userID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:                   uuid.NewString(),
			UserID:               userID,
			TotalPoints:          0,
			Level:                1,
			AchievementsUnlocked: []string{},
			InventionsDiscovered: []string{},
		}
		if err := db.Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// RecordGameScore validates the payload, appends an immutable GameScore row
// and folds it into the user's cumulative progress in one transaction:
// totalPoints grows by the score, gamesCompleted by one, the level is
// recomputed and the play streak advanced. The write is last-writer-wins at
// the granularity of the progress row.
func (s *ProgressionService) RecordGameScore(userID string, in ScoreInput) (*models.UserProgress, *models.GameScore, error) {
	if !in.GameType.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownGameType, in.GameType)
	}
	if in.Score < 0 || in.MaxScore <= 0 || in.Score > in.MaxScore {
		return nil, nil, fmt.Errorf("%w (got score=%d max_score=%d)", ErrInvalidScore, in.Score, in.MaxScore)
	}

	// An omitted details blob must land as NULL, not ''.
	var details *string
	if in.Details != "" {
		details = &in.Details
	}

	now := time.Now()
	score := models.GameScore{
		ID:             uuid.NewString(),
		UserID:         userID,
		GameType:       in.GameType,
		Score:          in.Score,
		MaxScore:       in.MaxScore,
		CompletionTime: in.CompletionTime,
		Difficulty:     in.Difficulty,
		Details:        details,
		PlayedAt:       now,
	}

	var updatedProg *models.UserProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := ensureProgressRecord(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Create(&score).Error; err != nil {
			return err
		}

		prog.StreakDays = nextStreak(prog.StreakDays, prog.LastPlayDate, now)
		prog.TotalPoints += in.Score
		prog.GamesCompleted++
		prog.Level = models.LevelForPoints(prog.TotalPoints)
		prog.LastPlayDate = &now

		if err := tx.Save(prog).Error; err != nil {
			return err
		}

		updatedProg = prog
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Mirror into the all-time ranking and dashboard counters outside the
	// transaction; both are best-effort caches over the same SQL truth.
	if s.RDB != nil {
		if err := s.RDB.ZIncrBy(context.Background(), AllTimeRankingKey, float64(in.Score), userID).Err(); err != nil {
			fmt.Printf("⚠️ ranking mirror update failed for %s: %v\n", userID, err)
		}
	}
	if s.Live != nil {
		s.Live.NoteGamePlayed(in.Score)
	}

	fmt.Printf("🎮 Score recorded: %s → %s %d/%d, points=%d, lvl=%d, streak=%d\n",
		userID, in.GameType, in.Score, in.MaxScore,
		updatedProg.TotalPoints, updatedProg.Level, updatedProg.StreakDays)

	return updatedProg, &score, nil
}

// nextStreak advances the consecutive-day counter: same calendar day keeps
// it, the day after extends it, any longer gap restarts at 1.
func nextStreak(current int, lastPlay *time.Time, now time.Time) int {
	if lastPlay == nil {
		return 1
	}
	last := dateOf(*lastPlay)
	today := dateOf(now)
	switch {
	case last.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case last.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UnlockCard awards the collectible card for a correctly-answered question.
// Rarity is derived from the question's difficulty tier. Awarding the same
// invention twice is a no-op, mirroring the one-card-per-question rule.
// The card row and the discovery-list update commit together; a failure on
// either side leaves neither behind.
func (s *ProgressionService) UnlockCard(userID string, in CardInput) (*models.CollectibleCard, error) {
	var card *models.CollectibleCard
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CollectibleCard{}).
			Where("user_id = ? AND invention_id = ?", userID, in.InventionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now()
		created := models.CollectibleCard{
			ID:            uuid.NewString(),
			UserID:        userID,
			InventionID:   in.InventionID,
			InventionName: in.InventionName,
			Rarity:        models.RarityForDifficulty(in.Difficulty),
			Unlocked:      true,
			DateUnlocked:  &now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		// Track the invention on the discovery list as well
		prog, err := ensureProgressRecord(tx, userID)
		if err != nil {
			return err
		}
		discovered := false
		for _, id := range prog.InventionsDiscovered {
			if id == in.InventionID {
				discovered = true
				break
			}
		}
		if !discovered {
			prog.InventionsDiscovered = append(prog.InventionsDiscovered, in.InventionID)
			if err := tx.Save(prog).Error; err != nil {
				return err
			}
		}

		card = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	fmt.Printf("🃏 Card unlocked: %s → %s (%s)\n", userID, in.InventionName, card.Rarity)
	return card, nil
}

// GetProgress returns the user's progress with history and cards rehydrated.
func (s *ProgressionService) GetProgress(userID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Where("user_id = ?", userID).
		Preload("GameScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("played_at ASC")
		}).
		Preload("CardsCollected").
		First(&prog).Error
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// GetRecentScores returns scores in the last N days, newest first.
func (s *ProgressionService) GetRecentScores(userID string, days int) ([]models.GameScore, error) {
	var scores []models.GameScore
	since := time.Now().AddDate(0, 0, -days)
	err := s.DB.Where("user_id = ? AND played_at >= ?", userID, since).
		Order("played_at DESC").
		Find(&scores).Error
	return scores, err
}

// CardCollection returns the user's cards plus a per-rarity tally for the
// profile view.
func (s *ProgressionService) CardCollection(userID string) ([]models.CollectibleCard, map[models.Rarity]int, error) {
	var cards []models.CollectibleCard
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&cards).Error; err != nil {
		return nil, nil, err
	}
	tally := map[models.Rarity]int{
		models.RarityCommon:    0,
		models.RarityRare:      0,
		models.RarityLegendary: 0,
	}
	for _, c := range cards {
		tally[c.Rarity]++
	}
	return cards, tally, nil
}
