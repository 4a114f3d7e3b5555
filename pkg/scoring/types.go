// Package scoring implements the segap risk scoring engine.
// It projects normalized self-assessment scores through a weight matrix and
// classifies the resulting non-detection probability of each attack scenario.
package scoring

// Report is the complete output of scoring one answer vector.
// Immutable once computed.
type Report struct {
	Entries []Entry `json:"entries"` // one per scenario, in scenario order
}

// Entry is the scored result for a single attack scenario.
type Entry struct {
	Scenario     Scenario `json:"scenario"`
	Detection    float64  `json:"detection_probability"`     // DP, clipped to [0, 1]
	NonDetection float64  `json:"non_detection_probability"` // Pnd = 1 - DP
	Tier         Tier     `json:"tier"`
}

// Tier is the risk classification of a non-detection probability.
type Tier string

const (
	TierCritical Tier = "CRITICAL"
	TierHigh     Tier = "HIGH"
	TierMedium   Tier = "MEDIUM"
	TierLow      Tier = "LOW"
)

// Tiers lists every tier from most to least severe.
var Tiers = []Tier{TierCritical, TierHigh, TierMedium, TierLow}

// Tier thresholds on Pnd. Each bound is exclusive from below.
const (
	CriticalAbove = 0.7
	HighAbove     = 0.5
	MediumAbove   = 0.3
)

// Classify maps a non-detection probability to its risk tier.
// The thresholds are half-open and evaluated top-down, so 0.7 is HIGH,
// 0.5 is MEDIUM and 0.3 is LOW.
func Classify(pnd float64) Tier {
	switch {
	case pnd > CriticalAbove:
		return TierCritical
	case pnd > HighAbove:
		return TierHigh
	case pnd > MediumAbove:
		return TierMedium
	default:
		return TierLow
	}
}

// TierCounts returns how many entries fall into each tier.
func (r *Report) TierCounts() map[Tier]int {
	counts := make(map[Tier]int, len(Tiers))
	for _, e := range r.Entries {
		counts[e.Tier]++
	}
	return counts
}

// Highest returns the most severe tier present in the report, or TierLow
// for an empty report.
func (r *Report) Highest() Tier {
	counts := r.TierCounts()
	for _, t := range Tiers {
		if counts[t] > 0 {
			return t
		}
	}
	return TierLow
}
