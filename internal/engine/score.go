package engine

import (
	"math"
	"time"

	"github.com/weavehq/weave/internal/store"
)

// Weave score decay:
//   - Exponential half-life per Dunbar tier without contact
//   - Floor: 15 (a friendship never scores zero just from silence)
//   - Logging a weave boosts score by category weight x vibe multiplier
//   - Computed in Go (not SQL) because modernc.org/sqlite lacks pow()
//   - Runs on server startup + daily via Engine.StartRefreshTimer()

const (
	// ScoreFloor is the minimum a score can decay to.
	ScoreFloor = 15.0

	// ScoreBase is the neutral starting score for a new friend.
	ScoreBase = 50.0
)

// Half-lives in days. Closer tiers expect more frequent contact, so their
// scores decay faster.
const (
	HalfLifeInner     = 30.0
	HalfLifeClose     = 60.0
	HalfLifeCommunity = 120.0
)

func halfLifeForTier(tier string) float64 {
	switch tier {
	case store.TierInner:
		return HalfLifeInner
	case store.TierClose:
		return HalfLifeClose
	default:
		return HalfLifeCommunity
	}
}

// categoryWeights are the base boost points per weave category.
var categoryWeights = map[string]float64{
	"hangout":     12,
	"activity":    10,
	"call":        8,
	"celebration": 8,
	"favor":       6,
	"message":     4,
}

// vibeMultipliers scale the boost by how the interaction felt.
var vibeMultipliers = map[string]float64{
	"energizing": 1.5,
	"good":       1.2,
	"neutral":    1.0,
	"drained":    0.6,
}

// DecayedScore returns the friend's score decayed from its last update to
// now. Monotonically non-increasing in elapsed time: absent new weaves a
// score only falls, never rises, and never below the floor.
func DecayedScore(score float64, scoreUpdatedAt int64, tier string, now time.Time) float64 {
	elapsed := now.Sub(time.UnixMilli(scoreUpdatedAt))
	if elapsed <= 0 {
		return clampScore(score)
	}
	days := elapsed.Hours() / 24
	halfLife := halfLifeForTier(tier)

	decayed := ScoreFloor + (score-ScoreFloor)*math.Pow(2, -days/halfLife)
	return clampScore(decayed)
}

// WeaveBoost returns the score bonus for logging a weave of the given
// category and vibe.
func WeaveBoost(category, vibe string) float64 {
	weight, ok := categoryWeights[category]
	if !ok {
		weight = 4
	}
	mult, ok := vibeMultipliers[vibe]
	if !ok {
		mult = 1.0
	}
	return weight * mult
}

func clampScore(s float64) float64 {
	if s < ScoreFloor {
		return ScoreFloor
	}
	if s > 100 {
		return 100
	}
	return s
}
