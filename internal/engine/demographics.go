package engine

// Demographic factors perturb the symptom score but never dominate it; both
// are bounded to [0.8, 1.3].
const (
	factorMin = 0.8
	factorMax = 1.3
)

// AgeFactor returns the age risk multiplier: elevated for the very young
// and the elderly, neutral otherwise. Unknown age is neutral.
func AgeFactor(age int) float64 {
	switch {
	case age < 0:
		return 1.0
	case age < 5:
		return 1.2
	case age > 65:
		return 1.3
	default:
		return 1.0
	}
}

// GenderFactor returns the gender multiplier applied at the combined-score
// level. It is neutral for every gender; condition-specific skews are applied
// per candidate by the ranker.
func GenderFactor(_ Gender) float64 {
	return 1.0
}

// genderSkew returns the per-condition gender multiplier, bounded to the
// documented factor range. Unknown gender is always neutral.
func genderSkew(c condition, gender Gender) float64 {
	if gender == GenderUnknown || c.skew == nil {
		return 1.0
	}
	s, ok := c.skew[gender]
	if !ok {
		return 1.0
	}
	return clampFactor(s)
}

func clampFactor(f float64) float64 {
	if f < factorMin {
		return factorMin
	}
	if f > factorMax {
		return factorMax
	}
	return f
}

// clampAge folds an explicitly supplied age into the supported [0,120]
// range. The unknown sentinel passes through untouched.
func clampAge(age int) int {
	if age == AgeUnknown {
		return AgeUnknown
	}
	if age < 0 {
		return 0
	}
	if age > 120 {
		return 120
	}
	return age
}
