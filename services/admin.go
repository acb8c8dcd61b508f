package services

import (
	"sort"
	"time"

	"inventindia-system/models"

	"gorm.io/gorm"
)

// Performer is one row of the top-performers table.
type Performer struct {
	User        models.User `json:"user"`
	TotalScore  int64       `json:"total_score"`
	GamesPlayed int         `json:"games_played"`
}

// GameTypeStat is the per-module breakdown.
type GameTypeStat struct {
	Label        string `json:"label"`
	TotalPlayed  int    `json:"total_played"`
	AverageScore int64  `json:"average_score"`
	TopScore     int64  `json:"top_score"`
}

// DailyStat is one day's activity in the histogram.
type DailyStat struct {
	Date         string `json:"date"`
	NewUsers     int    `json:"new_users"`
	GamesPlayed  int    `json:"games_played"`
	AverageScore int64  `json:"average_score"`
}

// AdminStats is the full descriptive snapshot shown on the admin dashboard.
type AdminStats struct {
	Period        Period                           `json:"period"`
	TotalUsers    int64                            `json:"total_users"`
	ActiveUsers   int                              `json:"active_users"`
	TotalGames    int                              `json:"total_games"`
	AverageScore  int64                            `json:"average_score"`
	TopPerformers []Performer                      `json:"top_performers"`
	GameTypeStats map[models.GameType]GameTypeStat `json:"game_type_stats"`
	DailyStats    []DailyStat                      `json:"daily_stats"`
}

type AdminService struct {
	DB    *gorm.DB
	Board *LeaderboardService
	Users *UserService
}

func NewAdminService(db *gorm.DB, board *LeaderboardService, users *UserService) *AdminService {
	return &AdminService{DB: db, Board: board, Users: users}
}

// ComputeStats aggregates every user's filtered history into global
// descriptive statistics. TotalUsers counts all registrations regardless of
// the window; everything else only sees scores inside it.
func (s *AdminService) ComputeStats(period Period) (*AdminStats, error) {
	var totalUsers int64
	if err := s.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}

	entries, err := s.Board.ComputeRankings(period, GameTypeAll)
	if err != nil {
		return nil, err
	}

	scoresByUser, err := s.Board.filteredScores(period, GameTypeAll)
	if err != nil {
		return nil, err
	}
	var allScores []models.GameScore
	for _, scores := range scoresByUser {
		allScores = append(allScores, scores...)
	}

	var sum int64
	byType := map[models.GameType]*GameTypeStat{}
	typeTotals := map[models.GameType]int64{}
	for _, sc := range allScores {
		sum += sc.Score
		st, ok := byType[sc.GameType]
		if !ok {
			st = &GameTypeStat{Label: sc.GameType.Label()}
			byType[sc.GameType] = st
		}
		st.TotalPlayed++
		if sc.Score > st.TopScore {
			st.TopScore = sc.Score
		}
		typeTotals[sc.GameType] += sc.Score
	}
	gameTypeStats := make(map[models.GameType]GameTypeStat, len(byType))
	for gt, st := range byType {
		st.AverageScore = roundDiv(typeTotals[gt], int64(st.TotalPlayed))
		gameTypeStats[gt] = *st
	}

	top := make([]Performer, 0, 10)
	for _, e := range entries {
		if len(top) == 10 {
			break
		}
		top = append(top, Performer{
			User:        e.User,
			TotalScore:  e.TotalScore,
			GamesPlayed: e.GamesPlayed,
		})
	}

	return &AdminStats{
		Period:        period,
		TotalUsers:    totalUsers,
		ActiveUsers:   len(entries),
		TotalGames:    len(allScores),
		AverageScore:  roundDiv(sum, int64(len(allScores))),
		TopPerformers: top,
		GameTypeStats: gameTypeStats,
		DailyStats:    buildDailyStats(allScores),
	}, nil
}

// buildDailyStats buckets scores by calendar day and keeps the 7 most recent
// days present in the data, newest first.
func buildDailyStats(scores []models.GameScore) []DailyStat {
	type bucket struct {
		games int
		total int64
	}
	byDay := map[string]*bucket{}
	for _, sc := range scores {
		day := sc.PlayedAt.Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.games++
		b.total += sc.Score
	}

	stats := make([]DailyStat, 0, len(byDay))
	for day, b := range byDay {
		stats = append(stats, DailyStat{
			Date: day,
			// TODO: populate NewUsers from users.join_date; the field has
			// always been zero and the dashboard renders it as such.
			NewUsers:     0,
			GamesPlayed:  b.games,
			AverageScore: roundDiv(b.total, int64(b.games)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date > stats[j].Date
	})
	if len(stats) > 7 {
		stats = stats[:7]
	}
	return stats
}

// BuildExport assembles the downloadable snapshot: the computed stats plus
// every user with their progress. A pure read; nothing stored changes.
func (s *AdminService) BuildExport(period Period) (*Snapshot, error) {
	stats, err := s.ComputeStats(period)
	if err != nil {
		return nil, err
	}

	users, err := s.Users.ListUsers()
	if err != nil {
		return nil, err
	}

	rows := make([]UserWithProgress, 0, len(users))
	for _, u := range users {
		var prog models.UserProgress
		err := s.DB.Where("user_id = ?", u.ID).
			Preload("GameScores").
			Preload("CardsCollected").
			First(&prog).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, UserWithProgress{User: u, Progress: prog})
	}

	return &Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Stats:         *stats,
		Users:         rows,
		ExportDate:    time.Now(),
	}, nil
}
