package services

import (
	"testing"
	"time"

	"inventindia-system/models"
)

func TestComputeRankingsDeterminism(t *testing.T) {
	db := newTestDB(t)
	board := NewLeaderboardService(db, nil)

	now := time.Now()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cara := seedUser(t, db, "cara")
	seedUser(t, db, "idle") // progress but no scores shouldn't rank

	seedScore(t, db, alice.ID, models.GameDiscovery, 200, now)
	seedScore(t, db, alice.ID, models.GameBuild, 100, now)
	seedScore(t, db, bob.ID, models.GameDiscovery, 500, now)
	seedScore(t, db, cara.ID, models.GameTimeline, 50, now)

	entries, err := board.ComputeRankings(PeriodAll, GameTypeAll)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 ranked users, got %d", len(entries))
	}

	wantOrder := []string{bob.ID, alice.ID, cara.ID}
	wantTotals := []int64{500, 300, 50}
	for i, e := range entries {
		if e.User.ID != wantOrder[i] {
			t.Errorf("rank %d: got %s, want %s", i+1, e.User.Username, wantOrder[i])
		}
		if e.TotalScore != wantTotals[i] {
			t.Errorf("rank %d: total=%d, want %d", i+1, e.TotalScore, wantTotals[i])
		}
		if e.Rank != i+1 {
			t.Errorf("rank field = %d at position %d", e.Rank, i+1)
		}
	}

	if entries[1].GamesPlayed != 2 || entries[1].AverageScore != 150 {
		t.Errorf("alice aggregates: games=%d avg=%d, want 2/150",
			entries[1].GamesPlayed, entries[1].AverageScore)
	}
}

func TestComputeRankingsPeriodBoundary(t *testing.T) {
	db := newTestDB(t)
	board := NewLeaderboardService(db, nil)

	now := time.Now()
	outside := seedUser(t, db, "outside")
	inside := seedUser(t, db, "inside")

	// 7 days and 1 second ago: excluded from the weekly window
	seedScore(t, db, outside.ID, models.GameDiscovery, 900, now.AddDate(0, 0, -7).Add(-time.Second))
	// 6 days 23 hours ago: included
	seedScore(t, db, inside.ID, models.GameDiscovery, 100, now.Add(-(6*24+23)*time.Hour))

	entries, err := board.ComputeRankings(PeriodWeek, GameTypeAll)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ranked user in weekly window, got %d", len(entries))
	}
	if entries[0].User.ID != inside.ID {
		t.Errorf("wrong user ranked: %s", entries[0].User.Username)
	}

	// Both visible with no window
	all, err := board.ComputeRankings(PeriodAll, GameTypeAll)
	if err != nil {
		t.Fatalf("compute all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 ranked users all-time, got %d", len(all))
	}
}

func TestComputeRankingsGameTypeFilter(t *testing.T) {
	db := newTestDB(t)
	board := NewLeaderboardService(db, nil)

	now := time.Now()
	u := seedUser(t, db, "uma")
	v := seedUser(t, db, "vik")

	seedScore(t, db, u.ID, models.GameTimeline, 300, now)
	seedScore(t, db, u.ID, models.GameBuild, 400, now)
	seedScore(t, db, v.ID, models.GameBuild, 700, now)

	entries, err := board.ComputeRankings(PeriodAll, string(models.GameTimeline))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 timeline player, got %d", len(entries))
	}
	if entries[0].User.ID != u.ID || entries[0].TotalScore != 300 {
		t.Errorf("timeline ranking: user=%s total=%d", entries[0].User.Username, entries[0].TotalScore)
	}
}

func TestComputeRankingsEmpty(t *testing.T) {
	db := newTestDB(t)
	board := NewLeaderboardService(db, nil)

	entries, err := board.ComputeRankings(PeriodAll, GameTypeAll)
	if err != nil {
		t.Fatalf("compute over empty store: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(entries))
	}
}

func TestGetUserRank(t *testing.T) {
	db := newTestDB(t)
	board := NewLeaderboardService(db, nil)

	now := time.Now()
	a := seedUser(t, db, "first")
	b := seedUser(t, db, "second")
	seedScore(t, db, a.ID, models.GameChat, 800, now)
	seedScore(t, db, b.ID, models.GameChat, 200, now)

	entry, found, err := board.GetUserRank(PeriodAll, GameTypeAll, b.ID)
	if err != nil {
		t.Fatalf("rank lookup: %v", err)
	}
	if !found || entry.Rank != 2 {
		t.Errorf("found=%t rank=%d, want true/2", found, entry.Rank)
	}

	_, found, err = board.GetUserRank(PeriodAll, GameTypeAll, "nobody")
	if err != nil {
		t.Fatalf("missing user lookup: %v", err)
	}
	if found {
		t.Error("rank reported for a user with no scores")
	}
}

func TestPeriodCutoff(t *testing.T) {
	now := time.Now()

	if c := PeriodAll.Cutoff(now); c != nil {
		t.Errorf("all-time cutoff should be nil, got %v", c)
	}
	if c := PeriodWeek.Cutoff(now); c == nil || !c.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("weekly cutoff = %v", c)
	}
	if c := PeriodMonth.Cutoff(now); c == nil || !c.Equal(now.AddDate(0, -1, 0)) {
		t.Errorf("monthly cutoff = %v", c)
	}
}
