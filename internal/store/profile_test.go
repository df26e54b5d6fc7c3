package store

import (
	"testing"
	"time"
)

func TestGetProfileCreatesDefault(t *testing.T) {
	db := testDB(t)

	p, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Season != SeasonBalanced {
		t.Errorf("Season = %q, want balanced default", p.Season)
	}
	if p.SeasonScore != 50 {
		t.Errorf("SeasonScore = %.1f, want 50", p.SeasonScore)
	}
	if p.Onboarded {
		t.Error("new profile should not be onboarded")
	}

	// Second call returns the same singleton, not a new row
	p2, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile again: %v", err)
	}
	if p2.CreatedAt != p.CreatedAt {
		t.Error("GetProfile should not recreate the profile")
	}
}

func TestTransitionSeason(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetProfile(); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	entry := &SeasonLog{
		FromSeason:     SeasonBalanced,
		ToSeason:       SeasonBlooming,
		Score:          82.5,
		Reason:         "computed",
		WeaveCount7d:   9,
		AvgFriendScore: 71.2,
		BatteryAvg:     66,
	}
	if err := db.TransitionSeason(entry); err != nil {
		t.Fatalf("TransitionSeason: %v", err)
	}

	p, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Season != SeasonBlooming {
		t.Errorf("Season = %q, want blooming", p.Season)
	}
	if p.SeasonScore != 82.5 {
		t.Errorf("SeasonScore = %.1f, want 82.5", p.SeasonScore)
	}

	logs, err := db.ListSeasonLogs(10)
	if err != nil {
		t.Fatalf("ListSeasonLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	l := logs[0]
	if l.FromSeason != SeasonBalanced || l.ToSeason != SeasonBlooming || l.WeaveCount7d != 9 {
		t.Errorf("log = %+v", l)
	}
}

func TestTransitionSeasonRejectsUnknown(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetProfile(); err != nil {
		t.Fatal(err)
	}
	err := db.TransitionSeason(&SeasonLog{FromSeason: SeasonBalanced, ToSeason: "hibernating", Reason: "computed"})
	if err == nil {
		t.Error("expected error for unknown season")
	}
}

func TestSeasonOverrideRoundTrip(t *testing.T) {
	db := testDB(t)

	until := time.Now().Add(72 * time.Hour).UnixMilli()
	if err := db.SetSeasonOverride(SeasonResting, until); err != nil {
		t.Fatalf("SetSeasonOverride: %v", err)
	}

	p, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.SeasonOverride != SeasonResting {
		t.Errorf("SeasonOverride = %q, want resting", p.SeasonOverride)
	}
	if p.SeasonOverrideUntil == nil || *p.SeasonOverrideUntil != until {
		t.Errorf("SeasonOverrideUntil = %v, want %d", p.SeasonOverrideUntil, until)
	}

	// The pin is part of the transition history
	logs, err := db.ListSeasonLogs(10)
	if err != nil {
		t.Fatalf("ListSeasonLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("season logs = %d, want 1", len(logs))
	}
	if logs[0].Reason != "override" || logs[0].FromSeason != SeasonBalanced || logs[0].ToSeason != SeasonResting {
		t.Errorf("log = %+v, want override balanced → resting", logs[0])
	}

	if err := db.SetSeasonOverride("", 0); err != nil {
		t.Fatalf("clear override: %v", err)
	}
	p, _ = db.GetProfile()
	if p.SeasonOverride != "" || p.SeasonOverrideUntil != nil {
		t.Errorf("override not cleared: %+v", p)
	}
	// Clearing adds no entry
	logs, err = db.ListSeasonLogs(10)
	if err != nil {
		t.Fatalf("ListSeasonLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("season logs = %d, want 1 after clear", len(logs))
	}
}

func TestUpdateProfileName(t *testing.T) {
	db := testDB(t)

	if err := db.UpdateProfileName("Robin"); err != nil {
		t.Fatalf("UpdateProfileName: %v", err)
	}
	p, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.DisplayName != "Robin" {
		t.Errorf("DisplayName = %q, want Robin", p.DisplayName)
	}
	if !p.Onboarded {
		t.Error("naming the profile should mark onboarding done")
	}
}
