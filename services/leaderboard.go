package services

import (
	"context"
	"math"
	"sort"
	"time"

	"inventindia-system/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Redis key names. The sorted set is a mirror of the all-time ranking kept
// current by the score-recording path; SQL stays the source of truth.
const (
	// AllTimeRankingKey is a Sorted Set: score = lifetime points, member = user ID.
	AllTimeRankingKey = "leaderboard:alltime"

	// OnlineUsersKey is a Set of user IDs with an active session.
	OnlineUsersKey = "users:online"
)

// Period selects the time window a ranking or stats query covers.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Cutoff returns the inclusive lower bound for scores in this period, or nil
// when the period applies no filter. Week is a rolling 7 days; month is one
// calendar month back.
func (p Period) Cutoff(now time.Time) *time.Time {
	switch p {
	case PeriodWeek:
		t := now.AddDate(0, 0, -7)
		return &t
	case PeriodMonth:
		t := now.AddDate(0, -1, 0)
		return &t
	default:
		return nil
	}
}

// GameTypeAll disables game-type filtering in ranking queries.
const GameTypeAll = "all"

// LeaderboardEntry is one ranked row: a user plus their aggregates over the
// filtered score window.
type LeaderboardEntry struct {
	User         models.User `json:"user"`
	TotalScore   int64       `json:"total_score"`
	GamesPlayed  int         `json:"games_played"`
	AverageScore int64       `json:"average_score"`
	Rank         int         `json:"rank"`
}

type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client // optional ranking mirror
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// ComputeRankings builds the ranking for the requested window and game type.
// Users with no progress row or no scores inside the window are skipped.
// Entries are sorted descending by total score; ties keep registration
// order, and ranks are assigned as 1-based positions with no gaps.
func (s *LeaderboardService) ComputeRankings(period Period, gameType string) ([]LeaderboardEntry, error) {
	var users []models.User
	if err := s.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	scoresByUser, err := s.filteredScores(period, gameType)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		scores := scoresByUser[u.ID]
		if len(scores) == 0 {
			continue
		}
		var total int64
		for _, sc := range scores {
			total += sc.Score
		}
		entries = append(entries, LeaderboardEntry{
			User:         u,
			TotalScore:   total,
			GamesPlayed:  len(scores),
			AverageScore: roundDiv(total, int64(len(scores))),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// GetUserRank returns the user's own row for callers outside the top 10.
// The second result is false when the user has no eligible scores.
func (s *LeaderboardService) GetUserRank(period Period, gameType, userID string) (LeaderboardEntry, bool, error) {
	entries, err := s.ComputeRankings(period, gameType)
	if err != nil {
		return LeaderboardEntry{}, false, err
	}
	for _, e := range entries {
		if e.User.ID == userID {
			return e, true, nil
		}
	}
	return LeaderboardEntry{}, false, nil
}

// AllTimeRank reads the user's position from the Redis mirror: 1-based rank
// plus lifetime points. Falls back to (0, false) when the mirror is disabled
// or the user is absent.
func (s *LeaderboardService) AllTimeRank(ctx context.Context, userID string) (int64, int64, bool, error) {
	if s.RDB == nil {
		return 0, 0, false, nil
	}
	rank, err := s.RDB.ZRevRank(ctx, AllTimeRankingKey, userID).Result()
	if err == redis.Nil {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	points, err := s.RDB.ZScore(ctx, AllTimeRankingKey, userID).Result()
	if err != nil {
		return 0, 0, false, err
	}
	return rank + 1, int64(points), true, nil
}

// RebuildMirror repopulates the Redis sorted set from SQL. Used at boot so a
// cold cache converges with the stored history.
func (s *LeaderboardService) RebuildMirror(ctx context.Context) error {
	if s.RDB == nil {
		return nil
	}
	var progs []models.UserProgress
	if err := s.DB.Find(&progs).Error; err != nil {
		return err
	}
	pipe := s.RDB.TxPipeline()
	pipe.Del(ctx, AllTimeRankingKey)
	for _, p := range progs {
		pipe.ZAdd(ctx, AllTimeRankingKey, &redis.Z{Score: float64(p.TotalPoints), Member: p.UserID})
	}
	_, err := pipe.Exec(ctx)
	return err
}

// filteredScores loads every score inside the window, grouped by user.
func (s *LeaderboardService) filteredScores(period Period, gameType string) (map[string][]models.GameScore, error) {
	q := s.DB.Model(&models.GameScore{})
	if cutoff := period.Cutoff(time.Now()); cutoff != nil {
		q = q.Where("played_at >= ?", *cutoff)
	}
	if gameType != "" && gameType != GameTypeAll {
		q = q.Where("game_type = ?", gameType)
	}

	var scores []models.GameScore
	if err := q.Find(&scores).Error; err != nil {
		return nil, err
	}

	byUser := make(map[string][]models.GameScore, len(scores))
	for _, sc := range scores {
		byUser[sc.UserID] = append(byUser[sc.UserID], sc)
	}
	return byUser, nil
}

// roundDiv divides and rounds half away from zero, matching how averages are
// displayed everywhere in the app.
func roundDiv(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(count)))
}
