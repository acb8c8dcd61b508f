package services

import (
	"errors"
	"testing"
	"time"

	"inventindia-system/models"
)

func setupAdmin(t *testing.T) (*AdminService, *ProgressionService, *UserService) {
	t.Helper()
	db := newTestDB(t)
	live := NewLiveStatsService(db, nil)
	users := NewUserService(db, nil, live)
	board := NewLeaderboardService(db, nil)
	prog := NewProgressionService(db, nil, live)
	return NewAdminService(db, board, users), prog, users
}

func TestComputeStatsScenario(t *testing.T) {
	admin, _, _ := setupAdmin(t)
	db := admin.DB

	now := time.Now()
	a := seedUser(t, db, "anu")
	b := seedUser(t, db, "balu")

	seedScore(t, db, a.ID, models.GameDiscovery, 50, now)
	seedScore(t, db, a.ID, models.GameBuild, 70, now)
	seedScore(t, db, b.ID, models.GameDiscovery, 100, now)

	stats, err := admin.ComputeStats(PeriodAll)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("active users = %d, want 2", stats.ActiveUsers)
	}
	if stats.TotalGames != 3 {
		t.Errorf("total games = %d, want 3", stats.TotalGames)
	}
	// round((50+70+100)/3) = 73
	if stats.AverageScore != 73 {
		t.Errorf("average score = %d, want 73", stats.AverageScore)
	}

	if len(stats.TopPerformers) != 2 {
		t.Fatalf("top performers = %d, want 2", len(stats.TopPerformers))
	}
	if stats.TopPerformers[0].User.ID != a.ID || stats.TopPerformers[0].TotalScore != 120 {
		t.Errorf("top performer = %s/%d, want anu/120",
			stats.TopPerformers[0].User.Username, stats.TopPerformers[0].TotalScore)
	}

	disc := stats.GameTypeStats[models.GameDiscovery]
	if disc.TotalPlayed != 2 || disc.TopScore != 100 || disc.AverageScore != 75 {
		t.Errorf("discovery stats = %+v", disc)
	}
	if disc.Label != "Discovery Quest" {
		t.Errorf("discovery label = %q", disc.Label)
	}
}

func TestComputeStatsPeriodFilter(t *testing.T) {
	admin, _, _ := setupAdmin(t)
	db := admin.DB

	now := time.Now()
	a := seedUser(t, db, "recent")
	b := seedUser(t, db, "stale")

	seedScore(t, db, a.ID, models.GameChat, 40, now)
	seedScore(t, db, b.ID, models.GameChat, 90, now.AddDate(0, 0, -20))

	stats, err := admin.ComputeStats(PeriodWeek)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// Registrations count regardless of the window; activity does not
	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.ActiveUsers != 1 || stats.TotalGames != 1 {
		t.Errorf("active=%d games=%d, want 1/1", stats.ActiveUsers, stats.TotalGames)
	}
}

func TestDailyStats(t *testing.T) {
	admin, _, _ := setupAdmin(t)
	db := admin.DB

	now := time.Now()
	u := seedUser(t, db, "daily")

	// Two games today, one yesterday, one nine days ago
	seedScore(t, db, u.ID, models.GameBuild, 100, now)
	seedScore(t, db, u.ID, models.GameBuild, 200, now.Add(-time.Minute))
	seedScore(t, db, u.ID, models.GameBuild, 60, now.AddDate(0, 0, -1))
	seedScore(t, db, u.ID, models.GameBuild, 10, now.AddDate(0, 0, -9))

	stats, err := admin.ComputeStats(PeriodAll)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if len(stats.DailyStats) != 3 {
		t.Fatalf("daily buckets = %d, want 3", len(stats.DailyStats))
	}
	today := stats.DailyStats[0]
	if today.Date != now.Format("2006-01-02") {
		t.Errorf("first bucket = %s, want today (most-recent-first)", today.Date)
	}
	if today.GamesPlayed != 2 || today.AverageScore != 150 {
		t.Errorf("today bucket = %+v", today)
	}
	if today.NewUsers != 0 {
		t.Errorf("new users = %d; the field is a declared gap and stays zero", today.NewUsers)
	}
	for i := 1; i < len(stats.DailyStats); i++ {
		if stats.DailyStats[i].Date > stats.DailyStats[i-1].Date {
			t.Errorf("daily stats not sorted most-recent-first at %d", i)
		}
	}
}

func TestBuildExport(t *testing.T) {
	admin, prog, _ := setupAdmin(t)
	db := admin.DB

	u := seedUser(t, db, "exported")
	if _, _, err := prog.RecordGameScore(u.ID, ScoreInput{
		GameType: models.GameWhatIf,
		Score:    120,
		MaxScore: 200,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap, err := admin.BuildExport(PeriodAll)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if snap.SchemaVersion != SnapshotSchemaVersion {
		t.Errorf("schema version = %d", snap.SchemaVersion)
	}
	if len(snap.Users) != 1 || snap.Users[0].Progress.TotalPoints != 120 {
		t.Fatalf("export users = %+v", snap.Users)
	}
	if len(snap.Users[0].Progress.GameScores) != 1 {
		t.Errorf("export history missing scores")
	}
	if snap.ExportDate.IsZero() {
		t.Error("export date not stamped")
	}

	// Exporting must not mutate stored state
	var before, after int64
	db.Model(&models.GameScore{}).Count(&before)
	if _, err := admin.BuildExport(PeriodAll); err != nil {
		t.Fatalf("second export: %v", err)
	}
	db.Model(&models.GameScore{}).Count(&after)
	if before != after {
		t.Errorf("export changed stored rows: %d -> %d", before, after)
	}
}

func TestSnapshotRoundTripAndCorruption(t *testing.T) {
	admin, _, _ := setupAdmin(t)
	seedUser(t, admin.DB, "snap")

	snap, err := admin.BuildExport(PeriodAll)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Stats.TotalUsers != snap.Stats.TotalUsers {
		t.Errorf("round trip lost stats: %d != %d", decoded.Stats.TotalUsers, snap.Stats.TotalUsers)
	}

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodeSnapshot([]byte("{not json"))
		if !errors.Is(err, ErrCorruptSnapshot) {
			t.Fatalf("got %v, want ErrCorruptSnapshot", err)
		}
	})

	t.Run("wrong schema version", func(t *testing.T) {
		_, err := DecodeSnapshot([]byte(`{"schema_version": 99}`))
		if !errors.Is(err, ErrCorruptSnapshot) {
			t.Fatalf("got %v, want ErrCorruptSnapshot", err)
		}
	})

	t.Run("missing version marker", func(t *testing.T) {
		_, err := DecodeSnapshot([]byte(`{}`))
		if !errors.Is(err, ErrCorruptSnapshot) {
			t.Fatalf("got %v, want ErrCorruptSnapshot", err)
		}
	})
}
