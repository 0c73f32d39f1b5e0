package engine

import (
	"math"
	"strings"
)

// PredictionInput carries the data for an outcome prediction. Age uses
// AgeUnknown when not supplied; Priority defaults to Medium.
type PredictionInput struct {
	Symptoms       string
	Age            int
	Gender         Gender
	Priority       Severity
	MedicalHistory string
}

// RecoveryTime is the estimated recovery duration with model certainty.
type RecoveryTime struct {
	EstimatedDays float64 `json:"estimated_days"`
	Confidence    float64 `json:"confidence"`
}

// ComplicationsRisk is the complication probability with its tier.
type ComplicationsRisk struct {
	RiskLevel   Severity `json:"risk_level"`
	Probability float64  `json:"probability"`
}

// ResourceNeeds estimates the care resources a case will consume.
type ResourceNeeds struct {
	BedDays            int  `json:"bed_days"`
	SpecialistRequired bool `json:"specialist_required"`
	FollowUpVisits     int  `json:"follow_up_visits"`
}

// OutcomeProbabilities is a distribution over recovery outcomes; the three
// values sum to 1.
type OutcomeProbabilities struct {
	FullRecovery     float64 `json:"full_recovery"`
	PartialRecovery  float64 `json:"partial_recovery"`
	ChronicCondition float64 `json:"chronic_condition"`
}

// PredictionResult is the full output of an outcome prediction.
type PredictionResult struct {
	Category             Category             `json:"category"`
	RecoveryTime         RecoveryTime         `json:"recovery_time"`
	ComplicationsRisk    ComplicationsRisk    `json:"complications_risk"`
	ResourceNeeds        ResourceNeeds        `json:"resource_needs"`
	OutcomeProbabilities OutcomeProbabilities `json:"outcome_probabilities"`
}

// Classify assigns symptom text to exactly one condition category by the
// highest matched lexicon weight per category keyword set. Ties are broken
// by fixed danger order; text matching no category maps to Other.
func Classify(symptoms string) Category {
	lower := strings.ToLower(symptoms)

	best := CategoryOther
	bestScore := 0.0
	for _, cat := range categoryTieOrder {
		var score float64
		for _, kw := range categoryKeywords[cat] {
			if matchesKeyword(lower, kw) {
				score += lexicon[kw]
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best
}

// Predict derives recovery time, complication risk, resource needs and an
// outcome-probability distribution for a case. Missing symptom text falls
// back to category Other with neutral constants; Predict never fails.
func Predict(input PredictionInput) PredictionResult {
	category := Classify(input.Symptoms)
	model := recoveryModels[category]
	age := clampAge(input.Age)

	estimatedDays := float64(model.baseDays) + ageAdjustment(age)

	priority := input.Priority
	if _, ok := priorityRiskMultiplier[priority]; !ok {
		priority = SeverityMedium
	}
	probability := clamp01(Score(input.Symptoms) * categoryRiskMultiplier[category] * priorityRiskMultiplier[priority])
	riskLevel := tier(probability)

	return PredictionResult{
		Category: category,
		RecoveryTime: RecoveryTime{
			EstimatedDays: estimatedDays,
			Confidence:    model.confidence,
		},
		ComplicationsRisk: ComplicationsRisk{
			RiskLevel:   riskLevel,
			Probability: probability,
		},
		ResourceNeeds: ResourceNeeds{
			BedDays:            int(math.Round(estimatedDays * model.bedDayFactor)),
			SpecialistRequired: riskLevel != SeverityLow,
			FollowUpVisits:     followUpVisits[category][riskLevel],
		},
		OutcomeProbabilities: outcomeProbabilities(probability),
	}
}

// ageAdjustment lengthens the recovery estimate linearly with distance from
// the reference age band: +0.1 day per year over 60, +0.15 day per year
// under 5. Unknown age contributes nothing.
func ageAdjustment(age int) float64 {
	switch {
	case age == AgeUnknown:
		return 0
	case age > 60:
		return 0.1 * float64(age-60)
	case age < 5:
		return 0.15 * float64(5-age)
	default:
		return 0
	}
}

// outcomeProbabilities allocates the complication probability across the
// three outcomes and renormalizes so they sum to exactly 1.
func outcomeProbabilities(p float64) OutcomeProbabilities {
	full := 1 - p
	partial := 0.6 * p
	chronic := 0.4 * p

	sum := full + partial + chronic
	if sum == 0 {
		return OutcomeProbabilities{FullRecovery: 1}
	}

	return OutcomeProbabilities{
		FullRecovery:     full / sum,
		PartialRecovery:  partial / sum,
		ChronicCondition: chronic / sum,
	}
}
