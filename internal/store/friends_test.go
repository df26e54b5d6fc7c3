package store

import (
	"errors"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateFriend(t *testing.T) {
	db := testDB(t)

	f := &Friend{Name: "Maya", Tier: TierInner, Archetype: "spark", Birthday: "03-14"}
	if err := db.CreateFriend(f); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}
	if f.ID == "" {
		t.Fatal("expected generated id")
	}
	if f.WeaveScore != 50 {
		t.Errorf("WeaveScore = %.1f, want the neutral base 50", f.WeaveScore)
	}

	got, err := db.GetFriend(f.ID)
	if err != nil {
		t.Fatalf("GetFriend: %v", err)
	}
	if got == nil {
		t.Fatal("friend not found after create")
	}
	if got.Name != "Maya" || got.Tier != TierInner || got.Archetype != "spark" {
		t.Errorf("got %+v", got)
	}
	if got.Birthday != "03-14" {
		t.Errorf("Birthday = %q, want 03-14", got.Birthday)
	}
}

func TestCreateFriendDefaults(t *testing.T) {
	db := testDB(t)

	f := &Friend{Name: "Sam"}
	if err := db.CreateFriend(f); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}
	if f.Tier != TierCommunity {
		t.Errorf("Tier = %q, want community default", f.Tier)
	}
	if f.Archetype != "anchor" {
		t.Errorf("Archetype = %q, want anchor default", f.Archetype)
	}
}

func TestCreateFriendBadInput(t *testing.T) {
	db := testDB(t)

	if err := db.CreateFriend(&Friend{Name: "X", Tier: "bestie"}); err == nil {
		t.Error("expected error for unknown tier")
	}
	if err := db.CreateFriend(&Friend{Name: "X", Archetype: "villain"}); err == nil {
		t.Error("expected error for unknown archetype")
	}
}

func TestTierCapacity(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 5; i++ {
		f := &Friend{Name: "Inner", Tier: TierInner}
		if err := db.CreateFriend(f); err != nil {
			t.Fatalf("CreateFriend %d: %v", i, err)
		}
	}

	err := db.CreateFriend(&Friend{Name: "One too many", Tier: TierInner})
	var full *ErrTierFull
	if !errors.As(err, &full) {
		t.Fatalf("err = %v, want ErrTierFull", err)
	}
	if full.Tier != TierInner || full.Capacity != 5 {
		t.Errorf("ErrTierFull = %+v", full)
	}
}

func TestArchiveFreesTierSlot(t *testing.T) {
	db := testDB(t)

	var first *Friend
	for i := 0; i < 5; i++ {
		f := &Friend{Name: "Inner", Tier: TierInner}
		if err := db.CreateFriend(f); err != nil {
			t.Fatalf("CreateFriend %d: %v", i, err)
		}
		if first == nil {
			first = f
		}
	}

	if err := db.ArchiveFriend(first.ID); err != nil {
		t.Fatalf("ArchiveFriend: %v", err)
	}
	if err := db.CreateFriend(&Friend{Name: "Replacement", Tier: TierInner}); err != nil {
		t.Errorf("archive should free a slot: %v", err)
	}

	// Archived friends drop out of listings
	friends, err := db.ListFriends(TierInner)
	if err != nil {
		t.Fatalf("ListFriends: %v", err)
	}
	for _, f := range friends {
		if f.ID == first.ID {
			t.Error("archived friend still listed")
		}
	}
}

func TestUpdateFriendTierMove(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 5; i++ {
		if err := db.CreateFriend(&Friend{Name: "Inner", Tier: TierInner}); err != nil {
			t.Fatalf("CreateFriend %d: %v", i, err)
		}
	}
	f := &Friend{Name: "Outer", Tier: TierClose}
	if err := db.CreateFriend(f); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}

	f.Tier = TierInner
	err := db.UpdateFriend(f)
	var full *ErrTierFull
	if !errors.As(err, &full) {
		t.Fatalf("err = %v, want ErrTierFull on move into full tier", err)
	}

	// Moving within capacity succeeds
	f.Tier = TierCommunity
	if err := db.UpdateFriend(f); err != nil {
		t.Fatalf("UpdateFriend: %v", err)
	}
	got, _ := db.GetFriend(f.ID)
	if got.Tier != TierCommunity {
		t.Errorf("Tier = %q, want community", got.Tier)
	}
}

func TestBoostScoreCapsAt100(t *testing.T) {
	db := testDB(t)

	f := &Friend{Name: "Nia"}
	if err := db.CreateFriend(f); err != nil {
		t.Fatalf("CreateFriend: %v", err)
	}

	now := time.Now().UnixMilli()
	if err := db.BoostScore(f.ID, 80, now); err != nil {
		t.Fatalf("BoostScore: %v", err)
	}

	got, err := db.GetFriend(f.ID)
	if err != nil {
		t.Fatalf("GetFriend: %v", err)
	}
	if got.WeaveScore != 100 {
		t.Errorf("WeaveScore = %.1f, want capped at 100", got.WeaveScore)
	}
	if got.LastWeaveAt == nil || *got.LastWeaveAt != now {
		t.Errorf("LastWeaveAt = %v, want %d", got.LastWeaveAt, now)
	}
}

func TestListFriendsOrderedByScore(t *testing.T) {
	db := testDB(t)

	a := &Friend{Name: "A"}
	b := &Friend{Name: "B"}
	if err := db.CreateFriend(a); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateFriend(b); err != nil {
		t.Fatal(err)
	}
	now := time.Now().UnixMilli()
	db.SetScore(a.ID, 80, now)
	db.SetScore(b.ID, 20, now)

	friends, err := db.ListFriends("")
	if err != nil {
		t.Fatalf("ListFriends: %v", err)
	}
	if len(friends) != 2 || friends[0].ID != b.ID {
		t.Errorf("most neglected friend should list first: %+v", friends)
	}
}

func TestGetFriendNotFound(t *testing.T) {
	db := testDB(t)
	got, err := db.GetFriend("nope")
	if err != nil {
		t.Fatalf("GetFriend: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}
