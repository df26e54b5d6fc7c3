package engine

import (
	"testing"
	"time"

	"github.com/weavehq/weave/internal/store"
)

func TestDecayedScoreMonotonic(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updatedAt := start.UnixMilli()

	prev := 100.0
	for days := 0; days <= 365; days += 7 {
		now := start.AddDate(0, 0, days)
		score := DecayedScore(80, updatedAt, store.TierInner, now)
		if score > prev {
			t.Fatalf("score rose from %.3f to %.3f at day %d", prev, score, days)
		}
		if score < ScoreFloor {
			t.Fatalf("score %.3f fell below floor at day %d", score, days)
		}
		prev = score
	}
}

func TestDecayedScoreHalfLife(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updatedAt := start.UnixMilli()

	// After one inner-circle half-life the distance to the floor halves.
	now := start.AddDate(0, 0, 30)
	got := DecayedScore(80, updatedAt, store.TierInner, now)
	want := ScoreFloor + (80-ScoreFloor)/2
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("after half-life: score = %.3f, want %.3f", got, want)
	}
}

func TestDecayedScoreTierHalfLives(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updatedAt := start.UnixMilli()
	now := start.AddDate(0, 0, 30)

	inner := DecayedScore(80, updatedAt, store.TierInner, now)
	closeTier := DecayedScore(80, updatedAt, store.TierClose, now)
	community := DecayedScore(80, updatedAt, store.TierCommunity, now)

	if !(inner < closeTier && closeTier < community) {
		t.Errorf("decay order wrong: inner %.2f, close %.2f, community %.2f", inner, closeTier, community)
	}
}

func TestDecayedScoreFloor(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(5, 0, 0)
	got := DecayedScore(90, start.UnixMilli(), store.TierInner, now)
	if got < ScoreFloor || got > ScoreFloor+0.01 {
		t.Errorf("after 5 years score = %.3f, want floor %.1f", got, ScoreFloor)
	}
}

func TestDecayedScoreNoElapsed(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := DecayedScore(72, now.UnixMilli(), store.TierClose, now)
	if got != 72 {
		t.Errorf("score = %.3f, want 72 with no elapsed time", got)
	}
}

func TestWeaveBoost(t *testing.T) {
	tests := []struct {
		category string
		vibe     string
		want     float64
	}{
		{"hangout", "energizing", 18},
		{"hangout", "neutral", 12},
		{"message", "drained", 2.4},
		{"call", "good", 9.6},
		{"unknown", "neutral", 4}, // falls back to the message weight
	}
	for _, tt := range tests {
		got := WeaveBoost(tt.category, tt.vibe)
		if diff := got - tt.want; diff > 0.001 || diff < -0.001 {
			t.Errorf("WeaveBoost(%s, %s) = %.2f, want %.2f", tt.category, tt.vibe, got, tt.want)
		}
	}
}
