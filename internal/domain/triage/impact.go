package triage

import "math"

const (
	MaxImpactScore = 100.0

	// UpvoteImpactBump is added to the stored score on every upvote on top
	// of the formula's own upvote multiplier. The next full recompute
	// (merge, admin edit, triage) discards it.
	UpvoteImpactBump = 0.5
)

// ImpactScore combines reports, priority tier and upvotes into [0,100]:
// (reports*12 + priority*10) * (1 + 0.15*ln(upvotes+1)), capped and rounded
// to two decimals.
func ImpactScore(reports, priority, upvotes int) float64 {
	if reports < 0 {
		reports = 0
	}
	if priority < 0 {
		priority = 0
	}
	if upvotes < 0 {
		upvotes = 0
	}
	base := float64(reports*12 + priority*10)
	multiplier := 1 + 0.15*math.Log(float64(upvotes)+1)
	return Round2(math.Min(MaxImpactScore, base*multiplier))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
