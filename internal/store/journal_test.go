package store

import (
	"testing"
	"time"
)

func TestCreateJournalEntry(t *testing.T) {
	db := testDB(t)

	e := &JournalEntry{Title: "Quiet Sunday", Body: "Stayed in. *Good* call.", Mood: "content"}
	if err := db.CreateJournalEntry(e); err != nil {
		t.Fatalf("CreateJournalEntry: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected generated id")
	}
	if e.EntryDate != time.Now().Format("2006-01-02") {
		t.Errorf("EntryDate = %q, want today", e.EntryDate)
	}

	got, err := db.GetJournalEntry(e.ID)
	if err != nil {
		t.Fatalf("GetJournalEntry: %v", err)
	}
	if got == nil {
		t.Fatal("entry not found after create")
	}
	if got.Title != "Quiet Sunday" || got.Mood != "content" {
		t.Errorf("got %+v", got)
	}
}

func TestListJournalEntriesNewestFirst(t *testing.T) {
	db := testDB(t)

	dates := []string{"2026-08-01", "2026-08-10", "2026-08-05"}
	for _, d := range dates {
		e := &JournalEntry{Title: d, Body: "x", EntryDate: d}
		if err := db.CreateJournalEntry(e); err != nil {
			t.Fatalf("CreateJournalEntry: %v", err)
		}
	}

	entries, err := db.ListJournalEntries(10)
	if err != nil {
		t.Fatalf("ListJournalEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].EntryDate != "2026-08-10" || entries[2].EntryDate != "2026-08-01" {
		t.Errorf("order wrong: %s, %s, %s", entries[0].EntryDate, entries[1].EntryDate, entries[2].EntryDate)
	}
}

func TestUpsertReflection(t *testing.T) {
	db := testDB(t)

	r := &WeeklyReflection{
		WeekStart: "2026-08-17",
		Highlight: "Dinner with old friends",
		Intention: "Call Mom",
	}
	if err := db.UpsertReflection(r); err != nil {
		t.Fatalf("UpsertReflection: %v", err)
	}

	// Second write for the same week replaces, not duplicates
	r2 := &WeeklyReflection{
		WeekStart: "2026-08-17",
		Highlight: "Dinner with old friends",
		Challenge: "Too many late nights",
	}
	if err := db.UpsertReflection(r2); err != nil {
		t.Fatalf("UpsertReflection again: %v", err)
	}

	got, err := db.GetReflection("2026-08-17")
	if err != nil {
		t.Fatalf("GetReflection: %v", err)
	}
	if got == nil {
		t.Fatal("reflection not found")
	}
	if got.Challenge != "Too many late nights" {
		t.Errorf("Challenge = %q, want updated value", got.Challenge)
	}
	if got.Intention != "" {
		t.Errorf("Intention = %q, want replaced by the new write", got.Intention)
	}

	reflections, err := db.ListReflections(10)
	if err != nil {
		t.Fatalf("ListReflections: %v", err)
	}
	if len(reflections) != 1 {
		t.Errorf("reflections = %d, want 1 after upsert", len(reflections))
	}
}

func TestGetReflectionNotFound(t *testing.T) {
	db := testDB(t)
	got, err := db.GetReflection("2026-01-05")
	if err != nil {
		t.Fatalf("GetReflection: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}
