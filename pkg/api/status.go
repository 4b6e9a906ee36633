package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/podhealth/pod-api/pkg/flows"
)

// RootResponse is the liveness marker returned by GET /
type RootResponse struct {
	Message string `json:"message"`
}

// HandleRoot handles GET / as a liveness check.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RootResponse{Message: "POD API is running"})
}

// HandleTestConnection handles GET /test, reporting store connectivity and
// collection metadata. A handler wired without a store reports
// not_configured rather than failing.
func (h *Handler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"backend":   "pod-api",
		"database":  "poddb",
		"timestamp": flows.Timestamp(),
	}

	if h.store == nil {
		info["connection_status"] = "not_configured"
		info["collections"] = []string{}
	} else {
		info["connection_status"] = "ok"
		info["collections"] = h.store.Collections()
		info["stats"] = h.store.Stats()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
