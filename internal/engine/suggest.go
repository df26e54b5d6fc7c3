package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/weavehq/weave/internal/store"
)

// Suggestion categories.
const (
	CatReconnect = "reconnect"
	CatCheckIn   = "check_in"
	CatLifeEvent = "life_event"
	CatMilestone = "milestone"
	CatIntention = "intention"
)

// Urgency tiers, high to low.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

var urgencyRank = map[string]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
}

// bypassCategories ignore the per-season daily cap. Life events and
// milestones always surface regardless of season.
var bypassCategories = map[string]bool{
	CatLifeEvent: true,
	CatMilestone: true,
}

// seasonAllowed lists which categories each season admits. Resting seasons
// quiet everything except events worth showing up for and gentle check-ins.
var seasonAllowed = map[string]map[string]bool{
	store.SeasonResting: {
		CatLifeEvent: true,
		CatMilestone: true,
		CatCheckIn:   true,
	},
	store.SeasonBalanced: {
		CatReconnect: true,
		CatCheckIn:   true,
		CatLifeEvent: true,
		CatMilestone: true,
		CatIntention: true,
	},
	store.SeasonBlooming: {
		CatReconnect: true,
		CatCheckIn:   true,
		CatLifeEvent: true,
		CatMilestone: true,
		CatIntention: true,
	},
}

// seasonCap is the daily cap on non-bypass suggestions per season.
var seasonCap = map[string]int{
	store.SeasonResting:  1,
	store.SeasonBalanced: 3,
	store.SeasonBlooming: 5,
}

// Suggestion is one nudge to contact a friend.
type Suggestion struct {
	Category    string  `json:"category"`
	Urgency     string  `json:"urgency"`
	FriendID    string  `json:"friend_id,omitempty"`
	FriendName  string  `json:"friend_name,omitempty"`
	FriendScore float64 `json:"friend_score,omitempty"`
	Text        string  `json:"text"`
}

// archetypeOpeners flavor suggestion copy by friend archetype.
var archetypeOpeners = map[string]string{
	"anchor":   "Steady as ever",
	"spark":    "Bring the energy",
	"mirror":   "They get you",
	"compass":  "Good counsel waiting",
	"wildcard": "Expect the unexpected",
}

func opener(archetype string) string {
	if o, ok := archetypeOpeners[archetype]; ok {
		return o
	}
	return archetypeOpeners["anchor"]
}

// Generate scans the store and produces the raw candidate list, unfiltered.
func Generate(db *store.DB, now time.Time) ([]Suggestion, error) {
	var out []Suggestion

	friends, err := db.ListFriends("")
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	for _, f := range friends {
		score := DecayedScore(f.WeaveScore, f.ScoreUpdatedAt, f.Tier, now)

		if score < 40 {
			urgency := UrgencyHigh
			if score >= 25 {
				urgency = UrgencyMedium
			}
			out = append(out, Suggestion{
				Category:    CatReconnect,
				Urgency:     urgency,
				FriendID:    f.ID,
				FriendName:  f.Name,
				FriendScore: score,
				Text:        fmt.Sprintf("%s — it's been a while since you wove with %s.", opener(f.Archetype), f.Name),
			})
			continue
		}

		if f.Tier == store.TierInner && staleDays(f.LastWeaveAt, f.CreatedAt, now) >= 14 {
			out = append(out, Suggestion{
				Category:    CatCheckIn,
				Urgency:     UrgencyMedium,
				FriendID:    f.ID,
				FriendName:  f.Name,
				FriendScore: score,
				Text:        fmt.Sprintf("%s — a quick check-in with %s keeps the inner circle close.", opener(f.Archetype), f.Name),
			})
		}
	}

	// Life events within a week, not yet acknowledged
	from := now.AddDate(0, 0, -7).Format("2006-01-02")
	to := now.AddDate(0, 0, 7).Format("2006-01-02")
	events, err := db.ListLifeEvents(from, to, false)
	if err != nil {
		return nil, fmt.Errorf("list life events: %w", err)
	}
	covered := make(map[string]bool)
	for _, ev := range events {
		f, err := db.GetFriend(ev.FriendID)
		if err != nil || f == nil || f.Archived {
			continue
		}
		cat := CatLifeEvent
		urgency := UrgencyCritical
		if ev.Kind == "birthday" || ev.Kind == "anniversary" {
			cat = CatMilestone
			urgency = UrgencyHigh
			covered[ev.FriendID+"/"+ev.Kind] = true
		}
		out = append(out, Suggestion{
			Category:   cat,
			Urgency:    urgency,
			FriendID:   f.ID,
			FriendName: f.Name,
			Text:       fmt.Sprintf("%s: %s (%s)", f.Name, ev.Title, ev.EventDate),
		})
	}

	// Recurring dates stored on the friend record. An explicit life event
	// for the same occasion takes precedence.
	window := make(map[string]bool, 8)
	for d := 0; d <= 7; d++ {
		window[now.AddDate(0, 0, d).Format("01-02")] = true
	}
	for _, f := range friends {
		for _, occ := range []struct{ kind, date string }{
			{"birthday", f.Birthday},
			{"anniversary", f.Anniversary},
		} {
			if occ.date == "" || !window[occ.date] || covered[f.ID+"/"+occ.kind] {
				continue
			}
			out = append(out, Suggestion{
				Category:   CatMilestone,
				Urgency:    UrgencyHigh,
				FriendID:   f.ID,
				FriendName: f.Name,
				Text:       fmt.Sprintf("%s's %s is coming up (%s).", f.Name, occ.kind, occ.date),
			})
		}
	}

	// Open intentions due soon or overdue
	intentions, err := db.ListIntentions("open")
	if err != nil {
		return nil, fmt.Errorf("list intentions: %w", err)
	}
	today := now.Format("2006-01-02")
	soon := now.AddDate(0, 0, 3).Format("2006-01-02")
	for _, in := range intentions {
		if in.DueDate == "" || in.DueDate > soon {
			continue
		}
		urgency := UrgencyMedium
		if in.DueDate < today {
			urgency = UrgencyHigh
		}
		s := Suggestion{
			Category: CatIntention,
			Urgency:  urgency,
			Text:     in.Text,
		}
		if in.FriendID != "" {
			if f, err := db.GetFriend(in.FriendID); err == nil && f != nil {
				s.FriendID = f.ID
				s.FriendName = f.Name
			}
		}
		out = append(out, s)
	}

	return out, nil
}

// staleDays returns full days since the friend's last weave, falling back
// to the friend's creation time when nothing is logged yet.
func staleDays(lastWeaveAt *int64, createdAt int64, now time.Time) int {
	ref := createdAt
	if lastWeaveAt != nil {
		ref = *lastWeaveAt
	}
	return int(now.Sub(time.UnixMilli(ref)).Hours() / 24)
}

// Filter applies the season's rules to a candidate list:
// drop disallowed categories, pull out bypass categories (never capped),
// sort the rest by urgency then by friend score ascending, truncate to the
// season cap, and recombine bypass first. Idempotent under a stable season.
func Filter(candidates []Suggestion, season string) []Suggestion {
	allowed, ok := seasonAllowed[season]
	if !ok {
		allowed = seasonAllowed[store.SeasonBalanced]
	}
	limit := seasonCap[season]
	if limit == 0 {
		limit = seasonCap[store.SeasonBalanced]
	}

	var bypass, regular []Suggestion
	for _, s := range candidates {
		if !allowed[s.Category] {
			continue
		}
		if bypassCategories[s.Category] {
			bypass = append(bypass, s)
		} else {
			regular = append(regular, s)
		}
	}

	sort.SliceStable(regular, func(i, j int) bool {
		ri, rj := urgencyRank[regular[i].Urgency], urgencyRank[regular[j].Urgency]
		if ri != rj {
			return ri < rj
		}
		return regular[i].FriendScore < regular[j].FriendScore
	})
	if len(regular) > limit {
		regular = regular[:limit]
	}

	sort.SliceStable(bypass, func(i, j int) bool {
		return urgencyRank[bypass[i].Urgency] < urgencyRank[bypass[j].Urgency]
	})

	out := make([]Suggestion, 0, len(bypass)+len(regular))
	out = append(out, bypass...)
	out = append(out, regular...)
	return out
}
