package services

import (
	"testing"
	"time"

	"inventindia-system/models"
)

func TestLiveStatsRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewLiveStatsService(db, nil)

	now := time.Now()
	a := seedUser(t, db, "online1")
	db.Model(&models.User{}).Where("id = ?", a.ID).Update("is_online", true)
	seedUser(t, db, "offline1")

	seedScore(t, db, a.ID, models.GameDiscovery, 60, now)
	seedScore(t, db, a.ID, models.GameDiscovery, 80, now)

	svc.Refresh()
	stats := svc.Snapshot()

	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.OnlineUsers != 1 {
		t.Errorf("online users = %d, want 1", stats.OnlineUsers)
	}
	if stats.TotalGamesPlayed != 2 {
		t.Errorf("games played = %d, want 2", stats.TotalGamesPlayed)
	}
	if stats.AverageScore != 70 {
		t.Errorf("average = %d, want 70", stats.AverageScore)
	}
	if stats.TodayLogins != 2 {
		t.Errorf("today logins = %d, want 2", stats.TodayLogins)
	}
	if stats.RefreshedAt.IsZero() {
		t.Error("refresh time not stamped")
	}
}

func TestLiveStatsNotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewLiveStatsService(db, nil)
	svc.Refresh()

	svc.NoteLogin(true)
	svc.NoteLogin(false)
	stats := svc.Snapshot()
	if stats.TotalUsers != 1 || stats.OnlineUsers != 2 || stats.TodayLogins != 2 {
		t.Errorf("after logins: %+v", stats)
	}

	svc.NoteLogout()
	if got := svc.Snapshot().OnlineUsers; got != 1 {
		t.Errorf("after logout: online = %d", got)
	}

	svc.NoteGamePlayed(100)
	svc.NoteGamePlayed(50)
	stats = svc.Snapshot()
	if stats.TotalGamesPlayed != 2 {
		t.Errorf("games played = %d", stats.TotalGamesPlayed)
	}
	if stats.AverageScore != 75 {
		t.Errorf("running average = %d, want 75", stats.AverageScore)
	}
}
