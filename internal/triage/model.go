package triage

import (
	"time"

	"github.com/nursle/platform/internal/engine"
	"github.com/nursle/platform/internal/shared/types"
)

// Record kinds.
const (
	KindCheck      = "check"
	KindPrediction = "prediction"
)

// Record is one persisted engine evaluation: who was triaged, what was
// reported and what the engine concluded.
type Record struct {
	ID               types.ID  `json:"id"`
	PatientID        *types.ID `json:"patient_id,omitempty"`
	NurseID          *types.ID `json:"nurse_id,omitempty"`
	Kind             string    `json:"kind"`
	Symptoms         string    `json:"symptoms"`
	Priority         string    `json:"priority"`
	TopCondition     string    `json:"top_condition,omitempty"`
	Confidence       float64   `json:"confidence"`
	PredictedOutcome string    `json:"predicted_outcome,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckRequest is the payload for a symptom check. Age is optional;
// gender must be a documented enum value when present.
type CheckRequest struct {
	Symptoms  string    `json:"symptoms"`
	Age       *int      `json:"age"`
	Gender    string    `json:"gender"`
	PatientID *types.ID `json:"patient_id"`
}

// CheckResponse is the symptom-check result returned to the caller.
type CheckResponse struct {
	Diagnosis       []engine.DiagnosisCandidate `json:"diagnosis"`
	Recommendations []string                    `json:"recommendations"`
	Confidence      float64                     `json:"confidence"`
}

// PredictRequest is the payload for an outcome prediction.
type PredictRequest struct {
	Symptoms       string    `json:"symptoms"`
	Age            *int      `json:"age"`
	Gender         string    `json:"gender"`
	Priority       string    `json:"priority"`
	MedicalHistory string    `json:"medical_history"`
	PatientID      *types.ID `json:"patient_id"`
}

// DailyCount is the triage volume for one calendar day.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Stats aggregates stored triage records over the trailing week.
type Stats struct {
	TotalLast7Days    int            `json:"total_last_7_days"`
	ByPriority        map[string]int `json:"by_priority"`
	Daily             []DailyCount   `json:"daily"`
	AverageConfidence float64        `json:"average_confidence"`
}

// age returns the engine age value for an optional request field.
func age(v *int) int {
	if v == nil {
		return engine.AgeUnknown
	}
	return *v
}

// mostLikelyOutcome names the highest-probability outcome of a prediction.
func mostLikelyOutcome(p engine.OutcomeProbabilities) string {
	switch {
	case p.FullRecovery >= p.PartialRecovery && p.FullRecovery >= p.ChronicCondition:
		return "full_recovery"
	case p.PartialRecovery >= p.ChronicCondition:
		return "partial_recovery"
	default:
		return "chronic_condition"
	}
}
