package identity

import (
	"strings"
	"time"

	"github.com/nursle/platform/internal/shared/types"
)

// Nurse is a registered staff account.
type Nurse struct {
	ID           types.ID  `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	NurseID      string    `json:"nurse_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FirstName returns the leading token of the full name, used for the
// dashboard greeting.
func (n Nurse) FirstName() string {
	parts := strings.Fields(n.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// SignupRequest is the payload for nurse registration.
type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	NurseID  string `json:"nurse_id"`
	Password string `json:"password"`
}

// Validate returns field-level validation failures, empty when valid.
func (r SignupRequest) Validate() map[string]string {
	details := make(map[string]string)

	if strings.TrimSpace(r.FullName) == "" {
		details["full_name"] = "full name is required"
	}
	if !strings.Contains(r.Email, "@") {
		details["email"] = "a valid email is required"
	}
	if strings.TrimSpace(r.NurseID) == "" {
		details["nurse_id"] = "nurse ID is required"
	}
	if len(r.Password) < 8 {
		details["password"] = "password must be at least 8 characters"
	}

	return details
}

// LoginRequest is the payload for nurse login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token     string `json:"token"`
	FirstName string `json:"first_name"`
}
