package analyzer

// Band is the discrete severity band a score maps to for presentation.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

const (
	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// ClassifyScore maps an analyzer score to a presentation band. Boundaries
// are inclusive on the lower bound of each band. The score itself is never
// altered.
func ClassifyScore(score float64) Band {
	switch {
	case score >= highThreshold:
		return BandHigh
	case score >= mediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}
