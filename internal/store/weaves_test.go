package store

import (
	"testing"
	"time"
)

func weaveFixtures(t *testing.T, db *DB) (a, b *Friend) {
	t.Helper()
	a = &Friend{Name: "Ana", Tier: TierInner}
	b = &Friend{Name: "Ben", Tier: TierClose}
	if err := db.CreateFriend(a); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}
	if err := db.CreateFriend(b); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}
	return a, b
}

func TestCreateWeave(t *testing.T) {
	db := testDB(t)
	a, b := weaveFixtures(t, db)

	w := &Weave{
		Category:  "hangout",
		Vibe:      "energizing",
		Note:      "park picnic",
		FriendIDs: []string{a.ID, b.ID},
	}
	if err := db.CreateWeave(w); err != nil {
		t.Fatalf("CreateWeave: %v", err)
	}
	if w.ID == "" {
		t.Fatal("expected generated id")
	}
	if w.HappenedAt == 0 {
		t.Fatal("HappenedAt should default to now")
	}

	got, err := db.GetWeave(w.ID)
	if err != nil {
		t.Fatalf("GetWeave: %v", err)
	}
	if got == nil {
		t.Fatal("weave not found after create")
	}
	if got.Category != "hangout" || got.Vibe != "energizing" || got.Note != "park picnic" {
		t.Errorf("got %+v", got)
	}
	if len(got.FriendIDs) != 2 {
		t.Errorf("FriendIDs = %v, want both friends linked", got.FriendIDs)
	}
}

func TestCreateWeaveValidation(t *testing.T) {
	db := testDB(t)
	a, _ := weaveFixtures(t, db)

	if err := db.CreateWeave(&Weave{Category: "seance", FriendIDs: []string{a.ID}}); err == nil {
		t.Error("expected error for unknown category")
	}
	if err := db.CreateWeave(&Weave{Category: "call", Vibe: "chaotic", FriendIDs: []string{a.ID}}); err == nil {
		t.Error("expected error for unknown vibe")
	}
	if err := db.CreateWeave(&Weave{Category: "call"}); err == nil {
		t.Error("expected error for weave with no friends")
	}
	// Unknown friend id fails the foreign key, rolling back the weave
	if err := db.CreateWeave(&Weave{Category: "call", FriendIDs: []string{"ghost"}}); err == nil {
		t.Error("expected error for unknown friend")
	}
}

func TestListWeavesByFriend(t *testing.T) {
	db := testDB(t)
	a, b := weaveFixtures(t, db)

	now := time.Now()
	mk := func(friendIDs []string, daysAgo int) {
		t.Helper()
		w := &Weave{
			Category:   "call",
			HappenedAt: now.AddDate(0, 0, -daysAgo).UnixMilli(),
			FriendIDs:  friendIDs,
		}
		if err := db.CreateWeave(w); err != nil {
			t.Fatalf("CreateWeave: %v", err)
		}
	}
	mk([]string{a.ID}, 1)
	mk([]string{a.ID, b.ID}, 3)
	mk([]string{b.ID}, 5)

	since := now.AddDate(0, 0, -7).UnixMilli()
	all, err := db.ListWeaves("", since)
	if err != nil {
		t.Fatalf("ListWeaves: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all weaves = %d, want 3", len(all))
	}

	forA, err := db.ListWeaves(a.ID, since)
	if err != nil {
		t.Fatalf("ListWeaves(a): %v", err)
	}
	if len(forA) != 2 {
		t.Errorf("weaves for a = %d, want 2", len(forA))
	}

	// Newest first
	if len(forA) == 2 && forA[0].HappenedAt < forA[1].HappenedAt {
		t.Error("weaves not sorted newest first")
	}
}

func TestWeaveCounts(t *testing.T) {
	db := testDB(t)
	a, _ := weaveFixtures(t, db)

	now := time.Now()
	for _, daysAgo := range []int{0, 0, 2, 10, 40} {
		w := &Weave{
			Category:   "message",
			HappenedAt: now.AddDate(0, 0, -daysAgo).UnixMilli(),
			FriendIDs:  []string{a.ID},
		}
		if err := db.CreateWeave(w); err != nil {
			t.Fatalf("CreateWeave: %v", err)
		}
	}

	since7 := now.AddDate(0, 0, -7).UnixMilli()
	count, err := db.CountWeavesSince(since7)
	if err != nil {
		t.Fatalf("CountWeavesSince: %v", err)
	}
	if count != 3 {
		t.Errorf("weaves in 7d = %d, want 3", count)
	}

	// Two weaves share a day, so distinct days is one less
	days, err := db.DistinctWeaveDaysSince(since7)
	if err != nil {
		t.Fatalf("DistinctWeaveDaysSince: %v", err)
	}
	if days != 2 {
		t.Errorf("distinct weave days = %d, want 2", days)
	}
}

func TestLastWeaveAt(t *testing.T) {
	db := testDB(t)
	a, b := weaveFixtures(t, db)

	got, err := db.LastWeaveAt(a.ID)
	if err != nil {
		t.Fatalf("LastWeaveAt: %v", err)
	}
	if got != nil {
		t.Errorf("LastWeaveAt = %v, want nil before any weave", got)
	}

	now := time.Now()
	older := now.AddDate(0, 0, -5).UnixMilli()
	newer := now.AddDate(0, 0, -1).UnixMilli()
	for _, at := range []int64{older, newer} {
		w := &Weave{Category: "call", HappenedAt: at, FriendIDs: []string{a.ID}}
		if err := db.CreateWeave(w); err != nil {
			t.Fatalf("CreateWeave: %v", err)
		}
	}

	got, err = db.LastWeaveAt(a.ID)
	if err != nil {
		t.Fatalf("LastWeaveAt: %v", err)
	}
	if got == nil || *got != newer {
		t.Errorf("LastWeaveAt = %v, want %d", got, newer)
	}

	// Unrelated friend unaffected
	got, err = db.LastWeaveAt(b.ID)
	if err != nil {
		t.Fatalf("LastWeaveAt(b): %v", err)
	}
	if got != nil {
		t.Errorf("LastWeaveAt(b) = %v, want nil", got)
	}
}
