package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/weavehq/weave/internal/engine"
	"github.com/weavehq/weave/internal/store"
)

type friendJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Archetype   string  `json:"archetype"`
	Tier        string  `json:"tier"`
	WeaveScore  float64 `json:"weave_score"`
	LastWeaveAt *int64  `json:"last_weave_at,omitempty"`
	Birthday    string  `json:"birthday,omitempty"`
	Anniversary string  `json:"anniversary,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

// friendView decays the stored score to now so the API always reports a
// current value, even between refresh runs.
func friendView(f *store.Friend, now time.Time) friendJSON {
	return friendJSON{
		ID:          f.ID,
		Name:        f.Name,
		Archetype:   f.Archetype,
		Tier:        f.Tier,
		WeaveScore:  engine.DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now),
		LastWeaveAt: f.LastWeaveAt,
		Birthday:    f.Birthday,
		Anniversary: f.Anniversary,
		Notes:       f.Notes,
		CreatedAt:   f.CreatedAt,
	}
}

func (s *Server) handleCreateFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Archetype   string `json:"archetype"`
		Tier        string `json:"tier"`
		Birthday    string `json:"birthday"`
		Anniversary string `json:"anniversary"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	f := &store.Friend{
		Name:        req.Name,
		Archetype:   req.Archetype,
		Tier:        req.Tier,
		Birthday:    req.Birthday,
		Anniversary: req.Anniversary,
		Notes:       req.Notes,
	}
	if err := s.db.CreateFriend(f); err != nil {
		var full *store.ErrTierFull
		if errors.As(err, &full) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, friendView(f, time.Now()))
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.db.ListFriends(r.URL.Query().Get("tier"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	out := make([]friendJSON, len(friends))
	for i := range friends {
		out[i] = friendView(&friends[i], now)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(out),
		"friends": out,
	})
}

func (s *Server) handleGetFriend(w http.ResponseWriter, r *http.Request) {
	f, err := s.db.GetFriend(chi.URLParam(r, "friendID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "friend not found")
		return
	}
	writeJSON(w, http.StatusOK, friendView(f, time.Now()))
}

func (s *Server) handleUpdateFriend(w http.ResponseWriter, r *http.Request) {
	f, err := s.db.GetFriend(chi.URLParam(r, "friendID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "friend not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Archetype   *string `json:"archetype"`
		Tier        *string `json:"tier"`
		Birthday    *string `json:"birthday"`
		Anniversary *string `json:"anniversary"`
		Notes       *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Archetype != nil {
		f.Archetype = *req.Archetype
	}
	if req.Tier != nil {
		f.Tier = *req.Tier
	}
	if req.Birthday != nil {
		f.Birthday = *req.Birthday
	}
	if req.Anniversary != nil {
		f.Anniversary = *req.Anniversary
	}
	if req.Notes != nil {
		f.Notes = *req.Notes
	}

	if err := s.db.UpdateFriend(f); err != nil {
		var full *store.ErrTierFull
		if errors.As(err, &full) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, friendView(f, time.Now()))
}

func (s *Server) handleArchiveFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ArchiveFriend(chi.URLParam(r, "friendID")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (s *Server) handleCreateWeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category   string   `json:"category"`
		HappenedAt int64    `json:"happened_at"`
		Vibe       string   `json:"vibe"`
		Note       string   `json:"note"`
		FriendIDs  []string `json:"friend_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Reject unknown friends before inserting anything
	for _, fid := range req.FriendIDs {
		f, err := s.db.GetFriend(fid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if f == nil {
			writeError(w, http.StatusBadRequest, "unknown friend "+fid)
			return
		}
	}

	weave := &store.Weave{
		Category:   req.Category,
		HappenedAt: req.HappenedAt,
		Vibe:       req.Vibe,
		Note:       req.Note,
		FriendIDs:  req.FriendIDs,
	}
	if err := s.db.CreateWeave(weave); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Boost each linked friend's score
	boost := engine.WeaveBoost(weave.Category, weave.Vibe)
	for _, fid := range weave.FriendIDs {
		if err := s.db.BoostScore(fid, boost, weave.HappenedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         weave.ID,
		"category":   weave.Category,
		"vibe":       weave.Vibe,
		"boost":      boost,
		"friend_ids": weave.FriendIDs,
	})
}

func (s *Server) handleListWeaves(w http.ResponseWriter, r *http.Request) {
	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			days = n
		}
	}
	since := time.Now().AddDate(0, 0, -days).UnixMilli()

	weaves, err := s.db.ListWeaves(r.URL.Query().Get("friend_id"), since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type weaveJSON struct {
		ID         string `json:"id"`
		Category   string `json:"category"`
		HappenedAt int64  `json:"happened_at"`
		Vibe       string `json:"vibe"`
		Note       string `json:"note,omitempty"`
	}
	out := make([]weaveJSON, len(weaves))
	for i, wv := range weaves {
		out[i] = weaveJSON{wv.ID, wv.Category, wv.HappenedAt, wv.Vibe, wv.Note}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(out),
		"weaves": out,
	})
}
