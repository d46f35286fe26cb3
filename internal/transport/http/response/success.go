package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Envelope wraps every successful API body: {"data": ...}.
type Envelope struct {
	Data any `json:"data"`
}

// HealthBody is the bare body of /healthz and /readyz. Health checks are read by
// orchestrators, so it skips the data envelope.
type HealthBody struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// WriteJSON encodes v with status. A Content-Type already set by the caller wins.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentTypeJSON)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}

// NoContent answers whitelist role updates and deletions.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Health(w http.ResponseWriter, status int, body HealthBody) {
	WriteJSON(w, status, body)
}
