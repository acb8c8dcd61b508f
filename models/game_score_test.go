package models

import "testing"

func TestGameTypeValid(t *testing.T) {
	for _, gt := range AllGameTypes {
		if !gt.Valid() {
			t.Errorf("%q should be valid", gt)
		}
	}
	for _, bad := range []GameType{"", "tetris", "Discovery"} {
		if bad.Valid() {
			t.Errorf("%q should not be valid", bad)
		}
	}
}

func TestGameTypeLabel(t *testing.T) {
	cases := map[GameType]string{
		GameDiscovery: "Discovery Quest",
		GameBuild:     "Build It Right",
		GameTimeline:  "Timeline Hunt",
		GameWhatIf:    "What-If Sandbox",
		GameChat:      "Inventor Chat",
		GameChallenge: "Invent Challenge",
	}
	for gt, want := range cases {
		if got := gt.Label(); got != want {
			t.Errorf("%q label = %q, want %q", gt, got, want)
		}
	}
	// Unknown types still get a readable fallback
	if got := GameType("puzzle").Label(); got != "Puzzle" {
		t.Errorf("fallback label = %q", got)
	}
}
