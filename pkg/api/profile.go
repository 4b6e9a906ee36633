package api

import (
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/podhealth/pod-api/pkg/domain"
	"github.com/podhealth/pod-api/pkg/flows"
	"github.com/podhealth/pod-api/pkg/records"
)

// ProfileCreateRequest is the body of POST /profile/create. Only username is
// required; the rest are descriptive fields carried through as-is.
type ProfileCreateRequest struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	Gender         string `json:"gender,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	DisabilityType string `json:"disability_type,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Email          string `json:"email,omitempty"`
}

// ProfileResponse is the body returned by POST /profile/create
type ProfileResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (req *ProfileCreateRequest) document() domain.Document {
	doc := domain.Document{"username": req.Username}
	optional := map[string]string{
		"full_name":       req.FullName,
		"gender":          req.Gender,
		"date_of_birth":   req.DateOfBirth,
		"disability_type": req.DisabilityType,
		"avatar_url":      req.AvatarURL,
		"email":           req.Email,
	}
	for field, value := range optional {
		if value != "" {
			doc[field] = value
		}
	}
	return doc
}

// HandleCreateProfile handles POST /profile/create with a username
// uniqueness guarantee.
func (h *Handler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Decoding profile body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc := req.document()
	if err := records.Validate("profile", doc); err != nil {
		var verr *records.ValidationError
		if errors.As(err, &verr) {
			WriteJSONError(w, http.StatusBadRequest, verr.Error())
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := flows.CreateProfile(h.store, doc)
	if err != nil {
		var conflict *flows.ConflictError
		if errors.As(err, &conflict) {
			log.Printf("WARN: Profile username conflict: %v", conflict)
			WriteJSONError(w, http.StatusConflict, conflict.Error())
			return
		}
		log.Printf("ERROR: Profile flow failed: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("INFO: Created profile %s for username %s", id, req.Username)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ProfileResponse{
		Success: true,
		ID:      id,
		Message: "Profile created",
	})
}
