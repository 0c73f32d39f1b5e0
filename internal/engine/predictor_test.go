package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string
		want     Category
	}{
		{"empty", "", CategoryOther},
		{"unmatched text", "sore knee after football", CategoryOther},
		{"respiratory", "mild cough", CategoryRespiratory},
		{"cardiac", "chest pain", CategoryCardiac},
		{"neurological", "headache and confusion", CategoryNeurological},
		{"cardiac beats respiratory", "chest pain with cough", CategoryCardiac},
		{"weight decides", "seizure and wheezing", CategoryNeurological},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.symptoms); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.symptoms, got, tt.want)
			}
		})
	}
}

func TestPredictRespiratoryScenario(t *testing.T) {
	result := Predict(PredictionInput{Symptoms: "mild cough", Age: 30, Priority: SeverityLow})

	if result.Category != CategoryRespiratory {
		t.Errorf("category = %s, want Respiratory", result.Category)
	}
	if result.ComplicationsRisk.RiskLevel == SeverityHigh {
		t.Errorf("risk level = High for a single low-weight keyword")
	}
	if result.ResourceNeeds.BedDays < 0 {
		t.Errorf("bed days = %d, want >= 0", result.ResourceNeeds.BedDays)
	}
	if result.RecoveryTime.EstimatedDays != 7 {
		t.Errorf("estimated days = %v, want base 7 for adult", result.RecoveryTime.EstimatedDays)
	}
}

func TestPredictOutcomeProbabilitiesSum(t *testing.T) {
	inputs := []PredictionInput{
		{Symptoms: "", Age: AgeUnknown, Priority: SeverityMedium},
		{Symptoms: "mild cough", Age: 30, Priority: SeverityLow},
		{Symptoms: "chest pain and shortness of breath", Age: 70, Priority: SeverityHigh},
		{Symptoms: "seizure and confusion", Age: 3, Priority: SeverityHigh},
	}

	for _, input := range inputs {
		probs := Predict(input).OutcomeProbabilities
		sum := probs.FullRecovery + probs.PartialRecovery + probs.ChronicCondition
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Predict(%q) probabilities sum to %v, want 1.0", input.Symptoms, sum)
		}
		for _, p := range []float64{probs.FullRecovery, probs.PartialRecovery, probs.ChronicCondition} {
			if p < 0 || p > 1 {
				t.Errorf("Predict(%q) probability %v outside [0,1]", input.Symptoms, p)
			}
		}
	}
}

func TestPredictDegenerateInput(t *testing.T) {
	result := Predict(PredictionInput{Symptoms: "", Age: AgeUnknown})

	if result.Category != CategoryOther {
		t.Errorf("category = %s, want Other", result.Category)
	}
	if result.ComplicationsRisk.Probability != 0 {
		t.Errorf("probability = %v, want 0 for empty symptoms", result.ComplicationsRisk.Probability)
	}
	if result.ComplicationsRisk.RiskLevel != SeverityLow {
		t.Errorf("risk level = %s, want Low", result.ComplicationsRisk.RiskLevel)
	}
	if result.ResourceNeeds.SpecialistRequired {
		t.Error("specialist required for a zero-risk case")
	}
	if result.OutcomeProbabilities.FullRecovery != 1 {
		t.Errorf("full recovery = %v, want 1", result.OutcomeProbabilities.FullRecovery)
	}
	if result.RecoveryTime.EstimatedDays != 10 {
		t.Errorf("estimated days = %v, want Other base 10", result.RecoveryTime.EstimatedDays)
	}
}

func TestPredictAgeAdjustment(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want float64
	}{
		{"elderly adds tenth per year over 60", 70, 14 + 1.0},
		{"infant adds fifteen hundredths per year under 5", 1, 14 + 0.6},
		{"reference band unchanged", 45, 14},
		{"unknown age neutral", AgeUnknown, 14},
		{"age clamped before adjustment", 500, 14 + 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Predict(PredictionInput{Symptoms: "chest pain", Age: tt.age})
			if math.Abs(result.RecoveryTime.EstimatedDays-tt.want) > 1e-9 {
				t.Errorf("estimated days = %v, want %v", result.RecoveryTime.EstimatedDays, tt.want)
			}
		})
	}
}

func TestPredictRiskMultipliers(t *testing.T) {
	// Same symptoms, higher caller priority, higher complication probability.
	low := Predict(PredictionInput{Symptoms: "chest pain", Age: 40, Priority: SeverityLow})
	high := Predict(PredictionInput{Symptoms: "chest pain", Age: 40, Priority: SeverityHigh})

	if high.ComplicationsRisk.Probability <= low.ComplicationsRisk.Probability {
		t.Errorf("high priority probability %v not above low priority %v",
			high.ComplicationsRisk.Probability, low.ComplicationsRisk.Probability)
	}

	want := clamp01(Score("chest pain") * 2.5 * 1.4)
	if math.Abs(high.ComplicationsRisk.Probability-want) > 1e-9 {
		t.Errorf("probability = %v, want %v", high.ComplicationsRisk.Probability, want)
	}
}

func TestPredictResourceNeeds(t *testing.T) {
	result := Predict(PredictionInput{Symptoms: "chest pain and shortness of breath", Age: 70, Priority: SeverityHigh})

	if result.Category != CategoryCardiac {
		t.Fatalf("category = %s, want Cardiac", result.Category)
	}
	if result.ComplicationsRisk.RiskLevel == SeverityLow {
		t.Fatalf("risk level = Low, expected elevated risk")
	}
	if !result.ResourceNeeds.SpecialistRequired {
		t.Error("specialist not required despite elevated risk")
	}
	if result.ResourceNeeds.FollowUpVisits < 1 {
		t.Errorf("follow-up visits = %d, want >= 1", result.ResourceNeeds.FollowUpVisits)
	}

	// bedDays = round(estimatedDays * cardiac bed factor 0.5)
	wantBed := int(math.Round(result.RecoveryTime.EstimatedDays * 0.5))
	if result.ResourceNeeds.BedDays != wantBed {
		t.Errorf("bed days = %d, want %d", result.ResourceNeeds.BedDays, wantBed)
	}
}

func TestPredictDeterministic(t *testing.T) {
	input := PredictionInput{Symptoms: "wheezing and fever", Age: 8, Gender: GenderFemale, Priority: SeverityMedium}

	first := Predict(input)
	second := Predict(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different results:\n%+v\n%+v", first, second)
	}
}
