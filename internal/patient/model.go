package patient

import (
	"strings"
	"time"

	"github.com/nursle/platform/internal/engine"
	"github.com/nursle/platform/internal/shared/types"
)

// Patient is a registered patient record.
type Patient struct {
	ID        types.ID  `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicalHistory is one diagnosed condition on a patient's record. Source
// distinguishes manual entries from records imported out of the legacy HIS.
type MedicalHistory struct {
	ID            types.ID  `json:"id"`
	PatientID     types.ID  `json:"patient_id"`
	Condition     string    `json:"condition"`
	DiagnosisDate time.Time `json:"diagnosis_date"`
	Treatment     string    `json:"treatment,omitempty"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// History sources.
const (
	SourceManual = "manual"
	SourceHIS    = "his"
)

// CreatePatientRequest is the payload for patient registration.
type CreatePatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
}

// Validate returns field-level validation failures, empty when valid.
func (r CreatePatientRequest) Validate() map[string]string {
	details := make(map[string]string)

	if strings.TrimSpace(r.FirstName) == "" {
		details["first_name"] = "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		details["last_name"] = "last name is required"
	}
	if r.Age < 0 || r.Age > 120 {
		details["age"] = "age must be between 0 and 120"
	}
	if _, ok := engine.ParseGender(r.Gender); !ok {
		details["gender"] = "gender must be one of Male, Female, Other, Unknown"
	}

	return details
}

// CreateHistoryRequest is the payload for adding a medical history entry.
// DiagnosisDate accepts YYYY-MM-DD or RFC 3339.
type CreateHistoryRequest struct {
	Condition     string `json:"condition"`
	DiagnosisDate string `json:"diagnosis_date"`
	Treatment     string `json:"treatment"`
	Status        string `json:"status"`
}

// ParseDiagnosisDate parses the diagnosis date field.
func (r CreateHistoryRequest) ParseDiagnosisDate() (time.Time, error) {
	if t, err := time.Parse("2006-01-02", r.DiagnosisDate); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, r.DiagnosisDate)
}

// Validate returns field-level validation failures, empty when valid.
func (r CreateHistoryRequest) Validate() map[string]string {
	details := make(map[string]string)

	if strings.TrimSpace(r.Condition) == "" {
		details["condition"] = "condition is required"
	}
	if _, err := r.ParseDiagnosisDate(); err != nil {
		details["diagnosis_date"] = "diagnosis date must be YYYY-MM-DD or RFC 3339"
	}

	return details
}
