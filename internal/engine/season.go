package engine

import (
	"github.com/weavehq/weave/internal/store"
)

// Season thresholds on the 0-100 score scale.
const (
	restingMax  = 35.0 // below this: resting
	bloomingMin = 70.0 // at or above this: blooming

	// hysteresisBuffer is how far past a boundary the score must overshoot
	// before the season actually switches. Scores inside the buffer zone
	// keep the previous season, preventing flapping at the boundary.
	hysteresisBuffer = 8.0
)

// SeasonInputs are the aggregates the season score is computed from.
// All fields are plain values; the calculator holds no state.
type SeasonInputs struct {
	WeaveCount7d   int
	WeaveCount30d  int
	AvgFriendScore float64 // all active friends, 0 if none
	AvgInnerScore  float64 // inner circle only, 0 if none
	ActiveDays7d   int     // distinct days with a weave in the last 7
	BatteryAvg     float64 // average of recent readings, 0-100; -1 if none
	BatteryTrend   int     // -1 falling, 0 flat, +1 rising
}

// SeasonScore produces the 0-100 social engagement score.
//
// Components:
//   - weaves last 7 days:   0-30 (5 per weave, capped)
//   - weaves last 30 days:  0-15 (1 per weave, capped)
//   - avg friend health:    0-20 (avg / 5)
//   - inner circle health:  0-15 (avg x 0.15)
//   - momentum:             0-10 (2 per active day, capped)
//   - battery:              0-10 (avg / 10) plus trend -5..+5
func SeasonScore(in SeasonInputs) float64 {
	score := 0.0

	freq7 := float64(in.WeaveCount7d) * 5
	if freq7 > 30 {
		freq7 = 30
	}
	score += freq7

	freq30 := float64(in.WeaveCount30d)
	if freq30 > 15 {
		freq30 = 15
	}
	score += freq30

	score += in.AvgFriendScore / 5
	score += in.AvgInnerScore * 0.15

	momentum := float64(in.ActiveDays7d) * 2
	if momentum > 10 {
		momentum = 10
	}
	score += momentum

	if in.BatteryAvg >= 0 {
		score += in.BatteryAvg / 10
		score += float64(in.BatteryTrend) * 5
	} else {
		// No readings: neutral battery contribution
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// seasonForScore maps a score to a season with no hysteresis applied.
func seasonForScore(score float64) string {
	switch {
	case score < restingMax:
		return store.SeasonResting
	case score >= bloomingMin:
		return store.SeasonBlooming
	default:
		return store.SeasonBalanced
	}
}

// NextSeason maps a score to a season given the previous season, applying
// the hysteresis buffer only on transitions. Deterministic and stateless:
// the previous season is a parameter, not stored here.
func NextSeason(prev string, score float64) string {
	if !store.ValidSeason(prev) {
		return seasonForScore(score)
	}

	raw := seasonForScore(score)
	if raw == prev {
		return prev
	}

	switch prev {
	case store.SeasonResting:
		// Must clear the resting ceiling by the buffer to leave.
		if score < restingMax+hysteresisBuffer {
			return prev
		}
		// Jumping straight to blooming additionally needs its own margin.
		if raw == store.SeasonBlooming && score < bloomingMin+hysteresisBuffer {
			return store.SeasonBalanced
		}
		return raw
	case store.SeasonBlooming:
		if score >= bloomingMin-hysteresisBuffer {
			return prev
		}
		if raw == store.SeasonResting && score >= restingMax-hysteresisBuffer {
			return store.SeasonBalanced
		}
		return raw
	default: // balanced
		if raw == store.SeasonBlooming && score < bloomingMin+hysteresisBuffer {
			return prev
		}
		if raw == store.SeasonResting && score >= restingMax-hysteresisBuffer {
			return prev
		}
		return raw
	}
}

// BatteryTrend fits the sign of the slope over recent readings,
// oldest first. Fewer than two readings is flat.
func BatteryTrend(levels []int) int {
	if len(levels) < 2 {
		return 0
	}

	// Least-squares slope over index -> level
	n := float64(len(levels))
	var sumX, sumY, sumXY, sumXX float64
	for i, l := range levels {
		x := float64(i)
		y := float64(l)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom

	// Ignore noise below one point per reading
	if slope > 1 {
		return 1
	}
	if slope < -1 {
		return -1
	}
	return 0
}
