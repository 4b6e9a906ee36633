package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/podhealth/pod-api/pkg/domain"
	"github.com/podhealth/pod-api/pkg/flows"
	"github.com/podhealth/pod-api/pkg/records"
)

// InsertResponse is the body returned by POST /collections/{coll}
type InsertResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// HandleInsertRecord handles POST requests to insert a record into one of
// the declared collections. The body is validated against the collection's
// record rules before any store access.
func (h *Handler) HandleInsertRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: HandleInsertRecord called for collection '%s'", collName)

	if _, known := records.Lookup(collName); !known {
		WriteJSONError(w, http.StatusNotFound, "unknown collection "+collName)
		return
	}

	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	records.ApplyDefaults(collName, doc)
	if err := records.Validate(collName, doc); err != nil {
		var verr *records.ValidationError
		if errors.As(err, &verr) {
			WriteJSONError(w, http.StatusBadRequest, verr.Error())
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	document := domain.Document{}
	for k, v := range doc {
		document[k] = v
	}
	if _, stamped := document["created_at"]; !stamped {
		document["created_at"] = flows.Timestamp()
	}

	id, err := h.store.Create(collName, document)
	if err != nil {
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) {
			WriteJSONError(w, http.StatusConflict, dup.Error())
			return
		}
		log.Printf("ERROR: Insert failed for collection '%s': %v", collName, err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("INFO: Insert successful for collection '%s' (id %s)", collName, id)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(InsertResponse{Success: true, ID: id})
}

// HandleFindRecords handles GET requests to find records matching an
// equality filter built from query parameters.
func (h *Handler) HandleFindRecords(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: HandleFindRecords called for collection '%s'", collName)

	if _, known := records.Lookup(collName); !known {
		WriteJSONError(w, http.StatusNotFound, "unknown collection "+collName)
		return
	}

	filter := make(map[string]interface{})
	limit := 0
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		if key == "limit" {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				WriteJSONError(w, http.StatusBadRequest, "invalid limit "+value)
				return
			}
			limit = parsed
			continue
		}

		// Numeric-looking values filter as numbers, matching stored JSON
		if num, err := strconv.ParseFloat(value, 64); err == nil {
			filter[key] = num
		} else {
			filter[key] = value
		}
	}

	docs, err := h.store.Query(collName, filter, limit)
	if err != nil {
		log.Printf("ERROR: Query failed for collection '%s': %v", collName, err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("INFO: Found %d documents in collection '%s' with filter %v", len(docs), collName, filter)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}
