package patient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreatePatientValidation(t *testing.T) {
	handler := NewHandler(NewRepository(nil), nil)
	router := handler.Routes()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid body", "{oops", http.StatusBadRequest},
		{"missing names", `{"age":30,"gender":"Female"}`, http.StatusBadRequest},
		{"age too high", `{"first_name":"Mila","last_name":"Horvat","age":130,"gender":"Female"}`, http.StatusBadRequest},
		{"negative age", `{"first_name":"Mila","last_name":"Horvat","age":-1,"gender":"Female"}`, http.StatusBadRequest},
		{"unknown gender value", `{"first_name":"Mila","last_name":"Horvat","age":30,"gender":"F"}`, http.StatusBadRequest},
		{"valid but no database", `{"first_name":"Mila","last_name":"Horvat","age":30,"gender":"Female"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetPatientInvalidID(t *testing.T) {
	handler := NewHandler(NewRepository(nil), nil)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAddHistoryValidation(t *testing.T) {
	handler := NewHandler(NewRepository(nil), nil)
	router := handler.Routes()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing condition", `{"diagnosis_date":"2025-01-15"}`, http.StatusBadRequest},
		{"bad date", `{"condition":"Asthma","diagnosis_date":"15/01/2025"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/11111111-1111-1111-1111-111111111111/medical-history"
			req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestParseDiagnosisDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"2025-01-15T10:30:00Z", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), false},
		{"yesterday", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		req := CreateHistoryRequest{DiagnosisDate: tt.in}
		got, err := req.ParseDiagnosisDate()
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDiagnosisDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseDiagnosisDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
