package predictionlog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nursle/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for the prediction log read side
type Handler struct {
	repo *Repository
}

// NewHandler creates a new prediction log handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the prediction log routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/verify", h.Verify)
	return r
}

// List returns the newest log entries
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, errors.Unavailable("prediction log not available"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":      entries,
		"count":     len(entries),
		"sequence":  h.repo.GetSequence(),
		"last_hash": h.repo.GetLastHash(),
	})
}

// Verify checks hash content and linkage over the newest entries
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, errors.Unavailable("prediction log not available"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	details := r.URL.Query().Get("details") == "true"

	result, err := h.repo.VerifyChain(r.Context(), limit, details)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
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
