// Package engine implements the diagnostic and predictive scoring engine:
// a deterministic, rules-based pipeline that turns free-text symptom
// descriptions and patient demographics into ranked diagnosis candidates
// and predicted clinical outcomes.
//
// All operations are pure functions over read-only tables initialized at
// package load, so the engine is safe for unbounded concurrent use.
package engine

import (
	"sort"
	"strings"
)

// Gender is the patient gender as reported at intake.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderOther   Gender = "Other"
	GenderUnknown Gender = "Unknown"
)

// ParseGender validates a gender string. Empty input maps to Unknown.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return Gender(s), true
	case "":
		return GenderUnknown, true
	default:
		return GenderUnknown, false
	}
}

// Severity is a discretized Low/Medium/High tier derived from a score.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// ParseSeverity validates a severity/priority tier. Empty input maps to Medium.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), true
	case "":
		return SeverityMedium, true
	default:
		return SeverityMedium, false
	}
}

// Category is the coarse clinical grouping used to select a recovery model.
type Category string

const (
	CategoryRespiratory  Category = "Respiratory"
	CategoryCardiac      Category = "Cardiac"
	CategoryNeurological Category = "Neurological"
	CategoryOther        Category = "Other"
)

// AgeUnknown is the sentinel for a missing age; all age-dependent factors
// treat it as neutral.
const AgeUnknown = -1

// Severity tier thresholds applied to confidence and probability scores.
const (
	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// tier buckets a [0,1] score into a severity tier.
func tier(v float64) Severity {
	switch {
	case v >= highThreshold:
		return SeverityHigh
	case v >= mediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// lexicon maps symptom keywords to severity weights in [0,1]. Keyword
// underscores are treated as spaces when matching against free text.
var lexicon = map[string]float64{
	"chest_pain":          1.00,
	"shortness_of_breath": 0.95,
	"seizure":             0.40,
	"confusion":           0.20,
	"palpitations":        0.18,
	"irregular_heartbeat": 0.18,
	"wheezing":            0.12,
	"headache":            0.12,
	"dizziness":           0.12,
	"fever":               0.12,
	"cough":               0.10,
}

// lexiconEntry pairs a match-time phrase (underscores as spaces) with its
// weight.
type lexiconEntry struct {
	phrase string
	weight float64
}

// lexiconEntries holds the lexicon in sorted phrase order. Scoring sums
// floats, so iteration order must be fixed for identical input to produce
// bit-identical scores.
var lexiconEntries = func() []lexiconEntry {
	entries := make([]lexiconEntry, 0, len(lexicon))
	for kw, w := range lexicon {
		entries = append(entries, lexiconEntry{strings.ReplaceAll(kw, "_", " "), w})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].phrase < entries[j].phrase })
	return entries
}()

// lexiconTotal is the normalization denominator for symptom scores, summed
// in the same fixed order as scoring.
var lexiconTotal = func() float64 {
	var total float64
	for _, e := range lexiconEntries {
		total += e.weight
	}
	return total
}()

// condition is one row of the fixed condition table consumed by the ranker.
// rank is the danger order used to break confidence ties, lower is more
// dangerous.
type condition struct {
	name     string
	category Category
	triggers []string
	rank     int
	skew     map[Gender]float64
}

var conditions = []condition{
	{
		name:     "Acute Coronary Syndrome",
		category: CategoryCardiac,
		triggers: []string{"chest_pain", "shortness_of_breath"},
		rank:     1,
		skew:     map[Gender]float64{GenderMale: 1.05},
	},
	{
		name:     "Seizure Disorder",
		category: CategoryNeurological,
		triggers: []string{"seizure", "confusion"},
		rank:     2,
	},
	{
		name:     "Arrhythmia",
		category: CategoryCardiac,
		triggers: []string{"palpitations", "irregular_heartbeat", "dizziness"},
		rank:     3,
	},
	{
		name:     "Asthma Exacerbation",
		category: CategoryRespiratory,
		triggers: []string{"wheezing", "shortness_of_breath", "cough"},
		rank:     4,
	},
	{
		name:     "Pneumonia",
		category: CategoryRespiratory,
		triggers: []string{"cough", "fever", "shortness_of_breath"},
		rank:     5,
	},
	{
		name:     "Influenza",
		category: CategoryRespiratory,
		triggers: []string{"fever", "cough", "headache"},
		rank:     6,
	},
	{
		name:     "Migraine",
		category: CategoryNeurological,
		triggers: []string{"headache", "dizziness"},
		rank:     7,
	},
}

// categoryKeywords drives category classification in the outcome predictor.
var categoryKeywords = map[Category][]string{
	CategoryCardiac:      {"chest_pain", "palpitations", "irregular_heartbeat"},
	CategoryRespiratory:  {"cough", "wheezing", "shortness_of_breath"},
	CategoryNeurological: {"headache", "dizziness", "confusion", "seizure"},
}

// categoryTieOrder breaks classification ties, most dangerous first.
var categoryTieOrder = []Category{
	CategoryCardiac,
	CategoryNeurological,
	CategoryRespiratory,
	CategoryOther,
}

// recoveryModel holds the base recovery estimate per category.
type recoveryModel struct {
	baseDays     int
	varianceDays int
	confidence   float64
	bedDayFactor float64
}

var recoveryModels = map[Category]recoveryModel{
	CategoryRespiratory:  {baseDays: 7, varianceDays: 3, confidence: 0.80, bedDayFactor: 0.3},
	CategoryCardiac:      {baseDays: 14, varianceDays: 7, confidence: 0.70, bedDayFactor: 0.5},
	CategoryNeurological: {baseDays: 21, varianceDays: 10, confidence: 0.60, bedDayFactor: 0.4},
	CategoryOther:        {baseDays: 10, varianceDays: 5, confidence: 0.65, bedDayFactor: 0.3},
}

// Complication-risk multipliers by category and caller-supplied priority.
var categoryRiskMultiplier = map[Category]float64{
	CategoryCardiac:      2.5,
	CategoryNeurological: 2.0,
	CategoryRespiratory:  1.5,
	CategoryOther:        1.0,
}

var priorityRiskMultiplier = map[Severity]float64{
	SeverityHigh:   1.4,
	SeverityMedium: 1.0,
	SeverityLow:    0.8,
}

// followUpVisits maps category and risk tier to recommended follow-ups.
var followUpVisits = map[Category]map[Severity]int{
	CategoryCardiac:      {SeverityHigh: 4, SeverityMedium: 3, SeverityLow: 2},
	CategoryNeurological: {SeverityHigh: 4, SeverityMedium: 3, SeverityLow: 2},
	CategoryRespiratory:  {SeverityHigh: 3, SeverityMedium: 2, SeverityLow: 1},
	CategoryOther:        {SeverityHigh: 3, SeverityMedium: 2, SeverityLow: 1},
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
