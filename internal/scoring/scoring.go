package scoring

import "math"

// Score computes the desirability score for a (candidate, position) pairing.
//
// The position weight rewards scarce positions, commitment rewards
// reliability, and the rotation factor rewards players who have played less
// within the group recently. The result is rounded to two decimal places so
// displayed scores are stable across runs.
func Score(positionWeight, commitment float64, playedInGroup, totalInGroup int) float64 {
	score := positionWeight*3 + commitment*2 + RotationFactor(playedInGroup, totalInGroup)*2
	return math.Round(score*100) / 100
}

// RotationFactor is clamp(1 - played/total, 0, 1), defined as 1 when the
// group has not played any match yet.
func RotationFactor(playedInGroup, totalInGroup int) float64 {
	if totalInGroup == 0 {
		return 1
	}
	f := 1 - float64(playedInGroup)/float64(totalInGroup)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
