package services

import (
	"context"
	"log"
	"sync"
	"time"

	"inventindia-system/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// LiveStats are the dashboard counters shown on the landing and login pages.
type LiveStats struct {
	TotalUsers       int64     `json:"total_users"`
	OnlineUsers      int64     `json:"online_users"`
	TodayLogins      int64     `json:"today_logins"`
	TotalGamesPlayed int64     `json:"total_games_played"`
	AverageScore     int64     `json:"average_score"`
	RefreshedAt      time.Time `json:"refreshed_at"`
}

// LiveStatsService owns the dashboard counters as an injectable state object
// with an explicit refresh contract: Refresh recomputes everything from
// storage, while NoteLogin/NoteLogout/NoteGamePlayed keep the counters warm
// between refreshes. A background worker calls Refresh on an interval.
type LiveStatsService struct {
	DB  *gorm.DB
	RDB *redis.Client // optional, used for the online-user set

	mu    sync.Mutex
	stats LiveStats
}

func NewLiveStatsService(db *gorm.DB, rdb *redis.Client) *LiveStatsService {
	return &LiveStatsService{DB: db, RDB: rdb}
}

// Refresh recomputes every counter from storage. Errors are logged, not
// returned: a failed refresh keeps the previous snapshot.
func (s *LiveStatsService) Refresh() {
	var totalUsers, totalGames, todayLogins int64
	var avg struct{ Avg float64 }

	if err := s.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("[LiveStats] user count failed: %v", err)
		return
	}
	if err := s.DB.Model(&models.GameScore{}).Count(&totalGames).Error; err != nil {
		log.Printf("[LiveStats] game count failed: %v", err)
		return
	}
	if totalGames > 0 {
		if err := s.DB.Model(&models.GameScore{}).
			Select("AVG(score) as avg").Scan(&avg).Error; err != nil {
			log.Printf("[LiveStats] average score failed: %v", err)
			return
		}
	}
	midnight := dateOf(time.Now())
	if err := s.DB.Model(&models.User{}).
		Where("last_login >= ?", midnight).Count(&todayLogins).Error; err != nil {
		log.Printf("[LiveStats] login count failed: %v", err)
		return
	}

	online := s.onlineCount()

	s.mu.Lock()
	s.stats = LiveStats{
		TotalUsers:       totalUsers,
		OnlineUsers:      online,
		TodayLogins:      todayLogins,
		TotalGamesPlayed: totalGames,
		AverageScore:     int64(avg.Avg + 0.5),
		RefreshedAt:      time.Now(),
	}
	s.mu.Unlock()
}

func (s *LiveStatsService) onlineCount() int64 {
	if s.RDB != nil {
		n, err := s.RDB.SCard(context.Background(), OnlineUsersKey).Result()
		if err == nil {
			return n
		}
		log.Printf("[LiveStats] online set read failed, falling back to DB: %v", err)
	}
	var n int64
	if err := s.DB.Model(&models.User{}).Where("is_online = ?", true).Count(&n).Error; err != nil {
		return 0
	}
	return n
}

// Snapshot returns the current counters.
func (s *LiveStatsService) Snapshot() LiveStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// NoteLogin bumps the session counters without waiting for the next refresh.
func (s *LiveStatsService) NoteLogin(newUser bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newUser {
		s.stats.TotalUsers++
	}
	s.stats.OnlineUsers++
	s.stats.TodayLogins++
}

// NoteLogout decrements the online counter.
func (s *LiveStatsService) NoteLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats.OnlineUsers > 0 {
		s.stats.OnlineUsers--
	}
}

// NoteGamePlayed folds one finished session into the running counters using
// the incremental mean, so the dashboard moves between refreshes.
func (s *LiveStatsService) NoteGamePlayed(score int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalGamesPlayed++
	n := s.stats.TotalGamesPlayed
	s.stats.AverageScore = (s.stats.AverageScore*(n-1) + score + n/2) / n
}
