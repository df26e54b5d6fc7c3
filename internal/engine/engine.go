package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/weavehq/weave/internal/store"
)

// Engine orchestrates score refresh, season recomputation, and suggestions.
type Engine struct {
	DB     *store.DB
	stopCh chan struct{}
}

// New creates a new Engine.
func New(db *store.DB) *Engine {
	return &Engine{
		DB:     db,
		stopCh: make(chan struct{}),
	}
}

// RefreshScores decays and persists every active friend's weave score.
// Returns the number of friends updated.
func (e *Engine) RefreshScores(now time.Time) (int, error) {
	friends, err := e.DB.ListFriends("")
	if err != nil {
		return 0, fmt.Errorf("list friends: %w", err)
	}

	updated := 0
	at := now.UnixMilli()
	for _, f := range friends {
		decayed := DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now)
		if decayed == f.WeaveScore {
			continue
		}
		if err := e.DB.SetScore(f.ID, decayed, at); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// SeasonInputsAt gathers the aggregates the season score needs.
func (e *Engine) SeasonInputsAt(now time.Time) (SeasonInputs, error) {
	var in SeasonInputs

	since7 := now.AddDate(0, 0, -7).UnixMilli()
	since30 := now.AddDate(0, 0, -30).UnixMilli()

	var err error
	if in.WeaveCount7d, err = e.DB.CountWeavesSince(since7); err != nil {
		return in, err
	}
	if in.WeaveCount30d, err = e.DB.CountWeavesSince(since30); err != nil {
		return in, err
	}
	if in.ActiveDays7d, err = e.DB.DistinctWeaveDaysSince(since7); err != nil {
		return in, err
	}

	friends, err := e.DB.ListFriends("")
	if err != nil {
		return in, err
	}
	var sumAll, sumInner float64
	var nAll, nInner int
	for _, f := range friends {
		score := DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now)
		sumAll += score
		nAll++
		if f.Tier == store.TierInner {
			sumInner += score
			nInner++
		}
	}
	if nAll > 0 {
		in.AvgFriendScore = sumAll / float64(nAll)
	}
	if nInner > 0 {
		in.AvgInnerScore = sumInner / float64(nInner)
	}

	levels, err := e.DB.RecentBatteryLevels(7)
	if err != nil {
		return in, err
	}
	if len(levels) == 0 {
		in.BatteryAvg = -1
	} else {
		sum := 0
		for _, l := range levels {
			sum += l
		}
		in.BatteryAvg = float64(sum) / float64(len(levels))
		in.BatteryTrend = BatteryTrend(levels)
	}

	return in, nil
}

// RecomputeSeason scores the current inputs, applies hysteresis and any
// active override, and persists the result. Returns the profile after
// recomputation.
func (e *Engine) RecomputeSeason(now time.Time) (*store.Profile, error) {
	profile, err := e.DB.GetProfile()
	if err != nil {
		return nil, err
	}

	in, err := e.SeasonInputsAt(now)
	if err != nil {
		return nil, fmt.Errorf("season inputs: %w", err)
	}
	score := SeasonScore(in)

	// Override expiry: fall back to the computed season and log it.
	if profile.SeasonOverride != "" && profile.SeasonOverrideUntil != nil &&
		now.UnixMilli() >= *profile.SeasonOverrideUntil {
		if err := e.DB.SetSeasonOverride("", 0); err != nil {
			return nil, err
		}
		next := NextSeason(profile.Season, score)
		entry := &store.SeasonLog{
			FromSeason:     profile.Season,
			ToSeason:       next,
			Score:          score,
			Reason:         "override_expired",
			WeaveCount7d:   in.WeaveCount7d,
			AvgFriendScore: in.AvgFriendScore,
			BatteryAvg:     in.BatteryAvg,
		}
		if err := e.DB.TransitionSeason(entry); err != nil {
			return nil, err
		}
		return e.DB.GetProfile()
	}

	// Active override: record the score but hold the pinned season.
	if profile.SeasonOverride != "" {
		if err := e.DB.SetSeasonScore(score); err != nil {
			return nil, err
		}
		return e.DB.GetProfile()
	}

	next := NextSeason(profile.Season, score)
	if next == profile.Season {
		if err := e.DB.SetSeasonScore(score); err != nil {
			return nil, err
		}
		return e.DB.GetProfile()
	}

	entry := &store.SeasonLog{
		FromSeason:     profile.Season,
		ToSeason:       next,
		Score:          score,
		Reason:         "computed",
		WeaveCount7d:   in.WeaveCount7d,
		AvgFriendScore: in.AvgFriendScore,
		BatteryAvg:     in.BatteryAvg,
	}
	if err := e.DB.TransitionSeason(entry); err != nil {
		return nil, err
	}
	return e.DB.GetProfile()
}

// CurrentSeason returns the effective season, honoring an unexpired override.
func (e *Engine) CurrentSeason(now time.Time) (string, error) {
	profile, err := e.DB.GetProfile()
	if err != nil {
		return "", err
	}
	if profile.SeasonOverride != "" && profile.SeasonOverrideUntil != nil &&
		now.UnixMilli() < *profile.SeasonOverrideUntil {
		return profile.SeasonOverride, nil
	}
	return profile.Season, nil
}

// Suggestions generates candidates and filters them for the current season.
func (e *Engine) Suggestions(now time.Time) ([]Suggestion, error) {
	season, err := e.CurrentSeason(now)
	if err != nil {
		return nil, err
	}
	candidates, err := Generate(e.DB, now)
	if err != nil {
		return nil, err
	}
	return Filter(candidates, season), nil
}

// StartRefreshTimer refreshes scores and the season at startup and then
// on the given interval.
func (e *Engine) StartRefreshTimer(interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	e.refresh()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.refresh()
			case <-e.stopCh:
				return
			}
		}
	}()
}

func (e *Engine) refresh() {
	now := time.Now()
	if updated, err := e.RefreshScores(now); err != nil {
		log.Printf("score refresh error: %v", err)
	} else if updated > 0 {
		log.Printf("score refresh: updated %d friends", updated)
	}
	if _, err := e.RecomputeSeason(now); err != nil {
		log.Printf("season recompute error: %v", err)
	}
}

// Stop shuts down the engine's background goroutine.
func (e *Engine) Stop() {
	close(e.stopCh)
}
