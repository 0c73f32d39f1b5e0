package engine

import (
	"reflect"
	"testing"
)

func TestRankEmptyText(t *testing.T) {
	result := Rank(SymptomReport{Text: "", Age: AgeUnknown, Gender: GenderUnknown})

	if len(result.Diagnoses) != 0 {
		t.Errorf("expected empty diagnosis list, got %d candidates", len(result.Diagnoses))
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", result.Confidence)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("expected one guidance recommendation, got %v", result.Recommendations)
	}
}

func TestRankCardiacScenario(t *testing.T) {
	// Two high-weight keywords plus the elderly age multiplier must surface
	// a high-severity cardiac candidate.
	result := Rank(SymptomReport{
		Text:   "chest pain and shortness of breath",
		Age:    70,
		Gender: GenderMale,
	})

	if len(result.Diagnoses) == 0 {
		t.Fatal("expected at least one candidate")
	}

	top := result.Diagnoses[0]
	if top.Condition != "Acute Coronary Syndrome" {
		t.Errorf("top candidate = %q, want Acute Coronary Syndrome", top.Condition)
	}
	if top.Category != CategoryCardiac {
		t.Errorf("top category = %s, want Cardiac", top.Category)
	}
	if top.Severity != SeverityHigh {
		t.Errorf("top severity = %s (confidence %v), want High", top.Severity, top.Confidence)
	}
	if result.Confidence < highThreshold {
		t.Errorf("overall confidence = %v, want >= %v", result.Confidence, highThreshold)
	}

	// High tier present: first recommendation is the immediate-care template.
	if result.Recommendations[0] != "Seek immediate medical attention." {
		t.Errorf("unexpected first recommendation %q", result.Recommendations[0])
	}
}

func TestRankBounds(t *testing.T) {
	reports := []SymptomReport{
		{Text: "cough", Age: 30, Gender: GenderFemale},
		{Text: "chest pain shortness of breath seizure confusion fever", Age: 70, Gender: GenderMale},
		{Text: "headache and dizziness", Age: 2, Gender: GenderOther},
		{Text: "wheezing", Age: 200, Gender: GenderUnknown},
	}

	for _, report := range reports {
		result := Rank(report)
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("Rank(%q) confidence %v outside [0,1]", report.Text, result.Confidence)
		}
		for _, c := range result.Diagnoses {
			if c.Confidence < 0 || c.Confidence > 1 {
				t.Errorf("candidate %s confidence %v outside [0,1]", c.Condition, c.Confidence)
			}
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	report := SymptomReport{Text: "fever, cough and headache", Age: 34, Gender: GenderFemale}

	first := Rank(report)
	second := Rank(report)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different results:\n%+v\n%+v", first, second)
	}
}

func TestRankOrdering(t *testing.T) {
	// Full influenza trigger set outranks the partial pneumonia match.
	result := Rank(SymptomReport{Text: "fever, cough and headache", Age: 30, Gender: GenderUnknown})

	if len(result.Diagnoses) < 2 {
		t.Fatalf("expected several candidates, got %d", len(result.Diagnoses))
	}
	if result.Diagnoses[0].Condition != "Influenza" {
		t.Errorf("top candidate = %q, want Influenza", result.Diagnoses[0].Condition)
	}
	for i := 1; i < len(result.Diagnoses); i++ {
		if result.Diagnoses[i].Confidence > result.Diagnoses[i-1].Confidence {
			t.Errorf("candidates not sorted descending at %d", i)
		}
	}
}

func TestRankTieBreakByDanger(t *testing.T) {
	// Shortness of breath alone gives Asthma and Pneumonia identical partial
	// matches; the more dangerous condition in the fixed order wins the tie.
	result := Rank(SymptomReport{Text: "shortness of breath", Age: 30, Gender: GenderUnknown})

	var asthmaIdx, pneumoniaIdx int = -1, -1
	for i, c := range result.Diagnoses {
		switch c.Condition {
		case "Asthma Exacerbation":
			asthmaIdx = i
		case "Pneumonia":
			pneumoniaIdx = i
		}
	}

	if asthmaIdx == -1 || pneumoniaIdx == -1 {
		t.Fatalf("expected both respiratory candidates, got %+v", result.Diagnoses)
	}
	if asthmaIdx > pneumoniaIdx {
		t.Errorf("tie broken wrong way: asthma at %d, pneumonia at %d", asthmaIdx, pneumoniaIdx)
	}
}

func TestRankCandidateCap(t *testing.T) {
	all := "chest pain shortness of breath seizure confusion palpitations " +
		"irregular heartbeat wheezing headache dizziness fever cough"

	result := Rank(SymptomReport{Text: all, Age: 50, Gender: GenderUnknown})
	if len(result.Diagnoses) > maxCandidates {
		t.Errorf("got %d candidates, cap is %d", len(result.Diagnoses), maxCandidates)
	}
}

func TestRankMonotonicConfidence(t *testing.T) {
	base := Rank(SymptomReport{Text: "cough", Age: 40, Gender: GenderUnknown})
	more := Rank(SymptomReport{Text: "cough and chest pain", Age: 40, Gender: GenderUnknown})

	if more.Confidence < base.Confidence {
		t.Errorf("adding a high-weight keyword decreased confidence: %v -> %v",
			base.Confidence, more.Confidence)
	}
}
