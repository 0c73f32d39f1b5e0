package triage

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nursle/platform/internal/engine"
	"github.com/nursle/platform/internal/shared/auth"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/metrics"
	"github.com/nursle/platform/internal/shared/types"
)

// Handler provides HTTP handlers for symptom checks, outcome predictions
// and triage analytics
type Handler struct {
	repo *Repository
	bus  events.EventBus
}

// NewHandler creates a new triage handler
func NewHandler(repo *Repository, bus events.EventBus) *Handler {
	return &Handler{repo: repo, bus: bus}
}

// SymptomRoutes registers the symptom-check routes
func (h *Handler) SymptomRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/check", h.CheckSymptoms)
	return r
}

// AnalyticsRoutes registers the analytics routes
func (h *Handler) AnalyticsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/predictive", h.PredictOutcomes)
	r.Get("/trends", h.Trends)
	r.Get("/triage", h.TriageStats)
	return r
}

// EngineRoutes registers the engine metadata routes
func (h *Handler) EngineRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.EngineHealth)
	r.Get("/models", h.EngineModels)
	return r
}

// CheckSymptoms evaluates a symptom report and returns ranked diagnosis
// candidates. Empty symptom text is a valid degenerate input.
func (h *Handler) CheckSymptoms(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	gender, ok := engine.ParseGender(req.Gender)
	if !ok {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"gender": "gender must be one of Male, Female, Other, Unknown",
		}))
		return
	}

	result := engine.Rank(engine.SymptomReport{
		Text:   req.Symptoms,
		Age:    age(req.Age),
		Gender: gender,
	})

	priority := "Low"
	topCondition := ""
	if len(result.Diagnoses) > 0 {
		priority = string(result.Diagnoses[0].Severity)
		topCondition = result.Diagnoses[0].Condition
	}

	metrics.RecordSymptomCheck(priority)

	rec := h.persist(r, &Record{
		ID:           types.NewID(),
		PatientID:    req.PatientID,
		Kind:         KindCheck,
		Symptoms:     req.Symptoms,
		Priority:     priority,
		TopCondition: topCondition,
		Confidence:   result.Confidence,
	})

	h.publish(r, events.NewEvent("triage.symptoms_checked", "triage", map[string]any{
		"record_id":     rec.ID,
		"symptoms":      req.Symptoms,
		"priority":      priority,
		"top_condition": topCondition,
		"confidence":    result.Confidence,
	}))

	writeJSON(w, http.StatusOK, CheckResponse{
		Diagnosis:       result.Diagnoses,
		Recommendations: result.Recommendations,
		Confidence:      result.Confidence,
	})
}

// PredictOutcomes derives recovery, risk and resource predictions for a
// case. Missing symptoms default the category to Other.
func (h *Handler) PredictOutcomes(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	gender, ok := engine.ParseGender(req.Gender)
	if !ok {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"gender": "gender must be one of Male, Female, Other, Unknown",
		}))
		return
	}

	priority, ok := engine.ParseSeverity(req.Priority)
	if !ok {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"priority": "priority must be one of Low, Medium, High",
		}))
		return
	}

	result := engine.Predict(engine.PredictionInput{
		Symptoms:       req.Symptoms,
		Age:            age(req.Age),
		Gender:         gender,
		Priority:       priority,
		MedicalHistory: req.MedicalHistory,
	})

	outcome := mostLikelyOutcome(result.OutcomeProbabilities)
	metrics.RecordOutcomePrediction(string(result.Category), string(result.ComplicationsRisk.RiskLevel))

	rec := h.persist(r, &Record{
		ID:               types.NewID(),
		PatientID:        req.PatientID,
		Kind:             KindPrediction,
		Symptoms:         req.Symptoms,
		Priority:         string(result.ComplicationsRisk.RiskLevel),
		TopCondition:     string(result.Category),
		Confidence:       result.ComplicationsRisk.Probability,
		PredictedOutcome: outcome,
	})

	h.publish(r, events.NewEvent("triage.outcome_predicted", "triage", map[string]any{
		"record_id":         rec.ID,
		"symptoms":          req.Symptoms,
		"category":          result.Category,
		"risk_level":        result.ComplicationsRisk.RiskLevel,
		"probability":       result.ComplicationsRisk.Probability,
		"predicted_outcome": outcome,
	}))

	writeJSON(w, http.StatusOK, result)
}

// Trends serves the engine's static seasonal and demographic summary
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.Trends())
}

// TriageStats aggregates the stored triage records for the trailing week
func (h *Handler) TriageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// EngineHealth reports engine availability. The engine is pure and in
// process, so this is a liveness statement plus configuration summary.
func (h *Handler) EngineHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"mode":   "rules",
		"models": len(engine.Models()),
	})
}

// EngineModels lists the engine's components
func (h *Handler) EngineModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": engine.Models()})
}

// persist stores a triage record best effort: the engine result is served
// even when the database is down. Returns the record for event payloads.
func (h *Handler) persist(r *http.Request, rec *Record) *Record {
	if user := auth.GetUser(r.Context()); user != nil {
		rec.NurseID = &user.ID
	}

	if !h.repo.Available() {
		return rec
	}
	if err := h.repo.CreateRecord(r.Context(), rec); err != nil {
		log.Printf("Failed to store triage record: %v", err)
	}
	return rec
}

func (h *Handler) publish(r *http.Request, event events.Event) {
	if h.bus == nil {
		return
	}
	if user := auth.GetUser(r.Context()); user != nil {
		event = event.WithActor(user.ID, "nurse")
	}
	if err := h.bus.Publish(r.Context(), event); err != nil {
		log.Printf("Failed to publish %s: %v", event.Type, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
