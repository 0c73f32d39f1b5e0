package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nursle/platform/internal/shared/config"
)

func newTestHandler() *Handler {
	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1}
	return NewHandler(NewRepository(nil), cfg, nil)
}

func TestSignupValidation(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid body", "{not json", http.StatusBadRequest},
		{"missing fields", `{}`, http.StatusBadRequest},
		{"bad email", `{"full_name":"Ana Kovač","email":"not-an-email","nurse_id":"N-100","password":"longenough"}`, http.StatusBadRequest},
		{"short password", `{"full_name":"Ana Kovač","email":"ana@clinic.test","nurse_id":"N-100","password":"short"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestSignupWithoutDatabase(t *testing.T) {
	handler := newTestHandler()

	body := `{"full_name":"Ana Kovač","email":"ana@clinic.test","nurse_id":"N-100","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Signup(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without a database", w.Code)
	}
}

func TestLoginValidation(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid body", "not json", http.StatusBadRequest},
		{"missing credentials", `{"email":""}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	// Repository lookups fail without a pool; login must answer 401 rather
	// than leaking the backend state.
	handler := newTestHandler()

	body := `{"email":"ghost@clinic.test","password":"whatever123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	handler := newTestHandler()
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without a token", w.Code)
	}
}

func TestNurseFirstName(t *testing.T) {
	tests := []struct {
		fullName string
		want     string
	}{
		{"Ana Kovač", "Ana"},
		{"Ana", "Ana"},
		{"", ""},
	}

	for _, tt := range tests {
		n := Nurse{FullName: tt.fullName}
		if got := n.FirstName(); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.fullName, got, tt.want)
		}
	}
}
