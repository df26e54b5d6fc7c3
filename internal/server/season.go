package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/weavehq/weave/internal/store"
)

type seasonView struct {
	Season        string  `json:"season"`
	Score         float64 `json:"score"`
	Since         int64   `json:"since"`
	Override      string  `json:"override,omitempty"`
	OverrideUntil *int64  `json:"override_until,omitempty"`
}

func profileSeasonView(p *store.Profile) seasonView {
	return seasonView{
		Season:        p.Season,
		Score:         p.SeasonScore,
		Since:         p.SeasonSince,
		Override:      p.SeasonOverride,
		OverrideUntil: p.SeasonOverrideUntil,
	}
}

func (s *Server) handleGetSeason(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetProfile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profileSeasonView(p))
}

func (s *Server) handleRecomputeSeason(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.RecomputeSeason(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profileSeasonView(p))
}

func (s *Server) handleSeasonOverride(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Season string `json:"season"`
		Until  int64  `json:"until"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Season != "" && req.Until <= time.Now().UnixMilli() {
		writeError(w, http.StatusBadRequest, "until must be in the future")
		return
	}

	if err := s.db.SetSeasonOverride(req.Season, req.Until); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.db.GetProfile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profileSeasonView(p))
}

func (s *Server) handleSeasonHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := s.db.ListSeasonLogs(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type logJSON struct {
		From           string  `json:"from"`
		To             string  `json:"to"`
		Score          float64 `json:"score"`
		Reason         string  `json:"reason"`
		WeaveCount7d   int     `json:"weave_count_7d"`
		AvgFriendScore float64 `json:"avg_friend_score"`
		BatteryAvg     float64 `json:"battery_avg"`
		CreatedAt      int64   `json:"created_at"`
	}
	out := make([]logJSON, len(logs))
	for i, l := range logs {
		out[i] = logJSON{l.FromSeason, l.ToSeason, l.Score, l.Reason,
			l.WeaveCount7d, l.AvgFriendScore, l.BatteryAvg, l.CreatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(out),
		"transitions": out,
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	suggestions, err := s.engine.Suggestions(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	season, err := s.engine.CurrentSeason(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"season":      season,
		"count":       len(suggestions),
		"suggestions": suggestions,
	})
}

func (s *Server) handleAddBattery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int    `json:"level"`
		Note  string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	entry, err := s.db.AddBatteryLog(req.Level, req.Note)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        entry.ID,
		"level":     entry.Level,
		"logged_at": entry.LoggedAt,
	})
}

func (s *Server) handleListBattery(w http.ResponseWriter, r *http.Request) {
	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			days = n
		}
	}
	since := time.Now().AddDate(0, 0, -days).UnixMilli()

	logs, err := s.db.ListBatteryLogs(since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type logJSON struct {
		ID       int64  `json:"id"`
		Level    int    `json:"level"`
		Note     string `json:"note,omitempty"`
		LoggedAt int64  `json:"logged_at"`
	}
	out := make([]logJSON, len(logs))
	for i, l := range logs {
		out[i] = logJSON{l.ID, l.Level, l.Note, l.LoggedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"readings": out,
	})
}
