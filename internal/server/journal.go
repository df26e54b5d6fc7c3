package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/weavehq/weave/internal/store"
)

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		Mood      string `json:"mood"`
		EntryDate string `json:"entry_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "title and body required")
		return
	}

	entry := &store.JournalEntry{
		Title:     req.Title,
		Body:      req.Body,
		Mood:      req.Mood,
		EntryDate: req.EntryDate,
	}
	if err := s.db.CreateJournalEntry(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         entry.ID,
		"entry_date": entry.EntryDate,
	})
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.db.ListJournalEntries(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type entryJSON struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Mood      string `json:"mood,omitempty"`
		EntryDate string `json:"entry_date"`
	}
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{e.ID, e.Title, e.Mood, e.EntryDate}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(out),
		"entries": out,
	})
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	entry, err := s.db.GetJournalEntry(chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         entry.ID,
		"title":      entry.Title,
		"body":       entry.Body,
		"mood":       entry.Mood,
		"entry_date": entry.EntryDate,
		"created_at": entry.CreatedAt,
	})
}

func (s *Server) handleUpsertReflection(w http.ResponseWriter, r *http.Request) {
	weekStart := chi.URLParam(r, "weekStart")
	if _, err := time.Parse("2006-01-02", weekStart); err != nil {
		writeError(w, http.StatusBadRequest, "week_start must be YYYY-MM-DD")
		return
	}

	var req struct {
		Highlight string `json:"highlight"`
		Challenge string `json:"challenge"`
		Intention string `json:"intention"`
		Gratitude string `json:"gratitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	refl := &store.WeeklyReflection{
		WeekStart: weekStart,
		Highlight: req.Highlight,
		Challenge: req.Challenge,
		Intention: req.Intention,
		Gratitude: req.Gratitude,
	}
	if err := s.db.UpsertReflection(refl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "saved",
		"week_start": weekStart,
	})
}

func (s *Server) handleListReflections(w http.ResponseWriter, r *http.Request) {
	reflections, err := s.db.ListReflections(12)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type reflJSON struct {
		WeekStart string `json:"week_start"`
		Highlight string `json:"highlight,omitempty"`
		Challenge string `json:"challenge,omitempty"`
		Intention string `json:"intention,omitempty"`
		Gratitude string `json:"gratitude,omitempty"`
	}
	out := make([]reflJSON, len(reflections))
	for i, rf := range reflections {
		out[i] = reflJSON{rf.WeekStart, rf.Highlight, rf.Challenge, rf.Intention, rf.Gratitude}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(out),
		"reflections": out,
	})
}

func (s *Server) handleCreateIntention(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FriendID string `json:"friend_id"`
		Text     string `json:"text"`
		DueDate  string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	in := &store.Intention{
		FriendID: req.FriendID,
		Text:     req.Text,
		DueDate:  req.DueDate,
	}
	if err := s.db.CreateIntention(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     in.ID,
		"status": in.Status,
	})
}

func (s *Server) handleCompleteIntention(w http.ResponseWriter, r *http.Request) {
	if err := s.db.CompleteIntention(chi.URLParam(r, "intentionID")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "done"})
}

func (s *Server) handleListIntentions(w http.ResponseWriter, r *http.Request) {
	intentions, err := s.db.ListIntentions(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type intentionJSON struct {
		ID       string `json:"id"`
		FriendID string `json:"friend_id,omitempty"`
		Text     string `json:"text"`
		DueDate  string `json:"due_date,omitempty"`
		Status   string `json:"status"`
	}
	out := make([]intentionJSON, len(intentions))
	for i, in := range intentions {
		out[i] = intentionJSON{in.ID, in.FriendID, in.Text, in.DueDate, in.Status}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(out),
		"intentions": out,
	})
}

func (s *Server) handleCreateLifeEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FriendID  string `json:"friend_id"`
		Kind      string `json:"kind"`
		Title     string `json:"title"`
		EventDate string `json:"event_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		writeError(w, http.StatusBadRequest, "event_date must be YYYY-MM-DD")
		return
	}

	f, err := s.db.GetFriend(req.FriendID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		writeError(w, http.StatusBadRequest, "unknown friend "+req.FriendID)
		return
	}

	ev := &store.LifeEvent{
		FriendID:  req.FriendID,
		Kind:      req.Kind,
		Title:     req.Title,
		EventDate: req.EventDate,
	}
	if err := s.db.CreateLifeEvent(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": ev.ID})
}

func (s *Server) handleAcknowledgeLifeEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.db.AcknowledgeLifeEvent(chi.URLParam(r, "eventID")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (s *Server) handleListLifeEvents(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := now.AddDate(0, 0, -30).Format("2006-01-02")
	to := now.AddDate(0, 0, 30).Format("2006-01-02")
	if u := r.URL.Query().Get("upcoming"); u != "" {
		if n, err := strconv.Atoi(u); err == nil && n > 0 {
			from = now.Format("2006-01-02")
			to = now.AddDate(0, 0, n).Format("2006-01-02")
		}
	}

	events, err := s.db.ListLifeEvents(from, to, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type eventJSON struct {
		ID           string `json:"id"`
		FriendID     string `json:"friend_id"`
		Kind         string `json:"kind"`
		Title        string `json:"title"`
		EventDate    string `json:"event_date"`
		Acknowledged bool   `json:"acknowledged"`
	}
	out := make([]eventJSON, len(events))
	for i, ev := range events {
		out[i] = eventJSON{ev.ID, ev.FriendID, ev.Kind, ev.Title, ev.EventDate, ev.Acknowledged}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(out),
		"events": out,
	})
}
