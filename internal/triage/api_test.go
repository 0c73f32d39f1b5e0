package triage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nursle/platform/internal/engine"
)

func newTestHandler() *Handler {
	return NewHandler(NewRepository(nil), nil)
}

func TestCheckSymptoms(t *testing.T) {
	handler := newTestHandler()
	router := handler.SymptomRoutes()

	body := `{"symptoms":"chest pain and shortness of breath","age":70,"gender":"Male"}`
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp CheckResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Diagnosis) == 0 {
		t.Fatal("expected diagnosis candidates")
	}
	if resp.Diagnosis[0].Severity != engine.SeverityHigh {
		t.Errorf("top severity = %s, want High", resp.Diagnosis[0].Severity)
	}
	if resp.Confidence <= 0 || resp.Confidence > 1 {
		t.Errorf("confidence = %v, want (0,1]", resp.Confidence)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
}

func TestCheckSymptomsEmptyText(t *testing.T) {
	// Empty symptoms is a valid degenerate input, not an error.
	handler := newTestHandler()
	router := handler.SymptomRoutes()

	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(`{"symptoms":""}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp CheckResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Diagnosis) != 0 {
		t.Errorf("expected empty diagnosis list, got %d", len(resp.Diagnosis))
	}
	if resp.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", resp.Confidence)
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("expected a single guidance recommendation, got %v", resp.Recommendations)
	}
}

func TestCheckSymptomsValidation(t *testing.T) {
	handler := newTestHandler()
	router := handler.SymptomRoutes()

	tests := []struct {
		name string
		body string
	}{
		{"invalid body", "{nope"},
		{"unknown gender value", `{"symptoms":"cough","gender":"X"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPredictOutcomes(t *testing.T) {
	handler := newTestHandler()
	router := handler.AnalyticsRoutes()

	body := `{"symptoms":"mild cough","age":30,"priority":"Low"}`
	req := httptest.NewRequest(http.MethodPost, "/predictive", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var resp engine.PredictionResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Category != engine.CategoryRespiratory {
		t.Errorf("category = %s, want Respiratory", resp.Category)
	}
	if resp.ComplicationsRisk.RiskLevel == engine.SeverityHigh {
		t.Error("risk level High for a single low-weight keyword")
	}
	if resp.ResourceNeeds.BedDays < 0 {
		t.Errorf("bed days = %d, want >= 0", resp.ResourceNeeds.BedDays)
	}
}

func TestPredictOutcomesValidation(t *testing.T) {
	handler := newTestHandler()
	router := handler.AnalyticsRoutes()

	tests := []struct {
		name string
		body string
	}{
		{"invalid body", "oops"},
		{"unknown priority value", `{"symptoms":"cough","priority":"Urgent"}`},
		{"unknown gender value", `{"symptoms":"cough","gender":"?"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/predictive", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestPredictOutcomesMissingSymptoms(t *testing.T) {
	handler := newTestHandler()
	router := handler.AnalyticsRoutes()

	req := httptest.NewRequest(http.MethodPost, "/predictive", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp engine.PredictionResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Category != engine.CategoryOther {
		t.Errorf("category = %s, want Other", resp.Category)
	}
}

func TestTrendsEndpoint(t *testing.T) {
	handler := newTestHandler()
	router := handler.AnalyticsRoutes()

	req := httptest.NewRequest(http.MethodGet, "/trends", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp engine.TrendsReport
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.SeasonalPatterns) == 0 {
		t.Error("expected seasonal patterns")
	}
	if len(resp.DemographicInsights.AgeGroups) == 0 {
		t.Error("expected age group insights")
	}
}

func TestTriageStatsWithoutDatabase(t *testing.T) {
	handler := newTestHandler()
	router := handler.AnalyticsRoutes()

	req := httptest.NewRequest(http.MethodGet, "/triage", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without a database", w.Code)
	}
}

func TestEngineEndpoints(t *testing.T) {
	handler := newTestHandler()
	router := handler.EngineRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/models", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("models status = %d, want 200", w.Code)
	}

	var resp struct {
		Models []engine.ModelInfo `json:"models"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Models) == 0 {
		t.Error("expected model metadata")
	}
}

func TestMostLikelyOutcome(t *testing.T) {
	tests := []struct {
		name  string
		probs engine.OutcomeProbabilities
		want  string
	}{
		{"full dominates", engine.OutcomeProbabilities{FullRecovery: 0.8, PartialRecovery: 0.12, ChronicCondition: 0.08}, "full_recovery"},
		{"partial dominates", engine.OutcomeProbabilities{FullRecovery: 0.1, PartialRecovery: 0.54, ChronicCondition: 0.36}, "partial_recovery"},
		{"chronic dominates", engine.OutcomeProbabilities{FullRecovery: 0.1, PartialRecovery: 0.3, ChronicCondition: 0.6}, "chronic_condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mostLikelyOutcome(tt.probs); got != tt.want {
				t.Errorf("mostLikelyOutcome = %q, want %q", got, tt.want)
			}
		})
	}
}
