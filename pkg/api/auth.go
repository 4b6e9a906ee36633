package api

import (
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/podhealth/pod-api/pkg/flows"
	"github.com/podhealth/pod-api/pkg/records"
)

// LoginRequest is the body of POST /auth/login. The password is required by
// shape but never verified; see flows.LoginOrRegister.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// HandleLogin handles POST /auth/login, treating login and first-time
// registration as one operation.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Decoding login body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := records.Validate("user", map[string]interface{}{"email": req.Email}); err != nil {
		var verr *records.ValidationError
		if errors.As(err, &verr) {
			WriteJSONError(w, http.StatusBadRequest, verr.Error())
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := flows.LoginOrRegister(h.store, req.Email)
	if err != nil {
		log.Printf("ERROR: Login flow failed for %s: %v", req.Email, err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if result.Created {
		log.Printf("INFO: Registered new user %s", req.Email)
	} else {
		log.Printf("INFO: Login for existing user %s", req.Email)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Success: true,
		Message: result.Message,
		Token:   result.Token,
	})
}
