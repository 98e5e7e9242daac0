package stepkin

import "math"

// findStep locates the time at which proj(t) crosses target, given a
// bracket [low, high] with low.t <= high.t, using the false-position
// (regula falsi) method.
//
// If the target is not bracketed (low and high lie on the same side of
// it), the degenerate result (low.t, target) is returned; the caller
// interprets this as "step at the low time" rather than as an error — this
// is the convention used during direction-change retries, not a failure
// mode.
func findStep(proj func(t float64) float64, low, high timepos, target float64) timepos {
	bestGuess := high

	low.p -= target
	high.p -= target
	if high.p == 0 {
		// The high bound was itself an exact hit.
		return bestGuess
	}
	highNeg := math.Signbit(high.p)
	if highNeg == math.Signbit(low.p) {
		return timepos{low.t, target}
	}

	for {
		guessTime := (low.t*high.p - high.t*low.p) / (high.p - low.p)
		if math.Abs(guessTime-bestGuess.t) <= RootFindEps {
			break
		}
		bestGuess.t = guessTime
		bestGuess.p = proj(guessTime)
		guessPos := bestGuess.p - target
		if math.Signbit(guessPos) == highNeg {
			high.t, high.p = guessTime, guessPos
		} else {
			low.t, low.p = guessTime, guessPos
		}
	}
	return bestGuess
}
