package identity

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nursle/platform/internal/shared/auth"
	"github.com/nursle/platform/internal/shared/config"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/events"
	"github.com/nursle/platform/internal/shared/types"
	"golang.org/x/crypto/bcrypt"
)

// Handler provides HTTP handlers for nurse registration and login
type Handler struct {
	repo *Repository
	cfg  config.AuthConfig
	bus  events.EventBus
}

// NewHandler creates a new identity handler
func NewHandler(repo *Repository, cfg config.AuthConfig, bus events.EventBus) *Handler {
	return &Handler{repo: repo, cfg: cfg, bus: bus}
}

// Routes registers the identity routes. Signup and login are public; the
// profile endpoint requires a valid token regardless of environment.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.cfg))
		r.Get("/me", h.Me)
	})

	return r
}

// Signup registers a new nurse account
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to hash password"))
		return
	}

	nurse := &Nurse{
		ID:           types.NewID(),
		FullName:     req.FullName,
		Email:        req.Email,
		NurseID:      req.NurseID,
		PasswordHash: string(hash),
	}

	if err := h.repo.CreateNurse(r.Context(), nurse); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, events.NewEvent("identity.nurse_registered", "identity", map[string]any{
		"nurse_id": nurse.ID,
		"email":    nurse.Email,
	}).WithActor(nurse.ID, "nurse"))

	writeJSON(w, http.StatusCreated, nurse)
}

// Login verifies credentials and issues a session token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, errors.BadRequest("email and password are required"))
		return
	}

	nurse, err := h.repo.GetNurseByEmail(r.Context(), req.Email)
	if err != nil {
		// Do not leak whether the account exists
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(nurse.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	token, err := auth.IssueToken(h.cfg, nurse.ID, nurse.FullName, nurse.Email, nurse.NurseID)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to issue token"))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		FirstName: nurse.FirstName(),
	})
}

// Me returns the authenticated nurse's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		writeError(w, errors.Unauthorized("not authenticated"))
		return
	}

	nurse, err := h.repo.GetNurse(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nurse)
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
