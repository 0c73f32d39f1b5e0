package engine

import (
	"fmt"
	"sort"
	"strings"
)

// maxCandidates bounds the diagnosis list length.
const maxCandidates = 5

// SymptomReport is the immutable input to a diagnostic ranking. Age uses
// AgeUnknown when not supplied.
type SymptomReport struct {
	Text   string
	Age    int
	Gender Gender
}

// DiagnosisCandidate is one ranked diagnostic suggestion.
type DiagnosisCandidate struct {
	Condition  string   `json:"condition"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Severity   Severity `json:"severity"`
}

// RankResult is the outcome of a symptom check.
type RankResult struct {
	Diagnoses       []DiagnosisCandidate `json:"diagnoses"`
	Recommendations []string             `json:"recommendations"`
	Confidence      float64              `json:"confidence"`
}

// Rank evaluates a symptom report against the condition table and returns
// diagnosis candidates ordered by descending confidence, with ties broken
// by fixed danger order. Empty symptom text yields an empty diagnosis list
// and a guidance recommendation; Rank never fails.
func Rank(report SymptomReport) RankResult {
	if strings.TrimSpace(report.Text) == "" {
		return RankResult{
			Diagnoses:       []DiagnosisCandidate{},
			Recommendations: []string{"Please describe the symptoms so an assessment can be made."},
			Confidence:      0,
		}
	}

	age := clampAge(report.Age)
	combined := clamp01(Score(report.Text) * AgeFactor(age) * GenderFactor(report.Gender))

	lower := strings.ToLower(report.Text)
	candidates := make([]DiagnosisCandidate, 0, len(conditions))
	order := make(map[string]int, len(conditions))

	for _, c := range conditions {
		matched := 0
		for _, kw := range c.triggers {
			if matchesKeyword(lower, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		fraction := float64(matched) / float64(len(c.triggers))
		confidence := clamp01(combined * fraction * genderSkew(c, report.Gender))

		order[c.name] = c.rank
		candidates = append(candidates, DiagnosisCandidate{
			Condition:  c.name,
			Category:   c.category,
			Confidence: confidence,
			Severity:   tier(confidence),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return order[candidates[i].Condition] < order[candidates[j].Condition]
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return RankResult{
		Diagnoses:       candidates,
		Recommendations: recommendations(candidates),
		Confidence:      combined,
	}
}

// recommendations builds template guidance keyed by the highest severity
// tier present, plus one line per High or Medium candidate.
func recommendations(candidates []DiagnosisCandidate) []string {
	highest := SeverityLow
	for _, c := range candidates {
		if c.Severity == SeverityHigh {
			highest = SeverityHigh
			break
		}
		if c.Severity == SeverityMedium {
			highest = SeverityMedium
		}
	}

	var recs []string
	switch highest {
	case SeverityHigh:
		recs = append(recs, "Seek immediate medical attention.")
	case SeverityMedium:
		recs = append(recs, "Schedule a medical consultation soon.")
	default:
		recs = append(recs, "Monitor symptoms and rest; seek care if they worsen.")
	}

	for _, c := range candidates {
		if c.Severity == SeverityHigh || c.Severity == SeverityMedium {
			recs = append(recs, fmt.Sprintf("Findings are consistent with %s; discuss with a clinician.", c.Condition))
		}
	}

	return recs
}
