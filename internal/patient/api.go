package patient

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/metrics"
	"github.com/nursle/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the patient module
type Handler struct {
	repo *Repository
	bus  events.EventBus
}

// NewHandler creates a new patient handler
func NewHandler(repo *Repository, bus events.EventBus) *Handler {
	return &Handler{repo: repo, bus: bus}
}

// Routes registers the patient routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPatients)
	r.Post("/", h.CreatePatient)

	r.Route("/{patientID}", func(r chi.Router) {
		r.Get("/", h.GetPatient)

		r.Route("/medical-history", func(r chi.Router) {
			r.Get("/", h.ListHistory)
			r.Post("/", h.AddHistory)
		})
	})

	return r
}

// ListPatients lists registered patients
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	patients, total, err := h.repo.ListPatients(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  patients,
		"total": total,
	})
}

// CreatePatient registers a new patient
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = "Unknown"
	}

	p := &Patient{
		ID:        types.NewID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Gender:    gender,
	}

	if err := h.repo.CreatePatient(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientRegistered()
	h.publish(r, events.NewEvent("patient.registered", "patient", map[string]any{
		"patient_id": p.ID,
	}))

	writeJSON(w, http.StatusCreated, p)
}

// GetPatient gets a patient by ID
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// ListHistory lists a patient's medical history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	entries, err := h.repo.ListHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

// AddHistory adds a medical history entry to a patient
func (h *Handler) AddHistory(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	var req CreateHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	// The patient must exist; surfaces 404 before insert
	if _, err := h.repo.GetPatient(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	diagnosisDate, _ := req.ParseDiagnosisDate()

	status := req.Status
	if status == "" {
		status = "Active"
	}

	entry := &MedicalHistory{
		ID:            types.NewID(),
		PatientID:     id,
		Condition:     req.Condition,
		DiagnosisDate: diagnosisDate,
		Treatment:     req.Treatment,
		Status:        status,
		Source:        SourceManual,
	}

	if err := h.repo.AddHistory(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, events.NewEvent("patient.history_added", "patient", map[string]any{
		"patient_id": id,
		"condition":  entry.Condition,
	}))

	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) publish(r *http.Request, event events.Event) {
	if h.bus == nil {
		return
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
