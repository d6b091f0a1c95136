// Package api writes the portal's few JSON replies: probes, metrics and
// the conflict sent to a fetch that a newer one replaced.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Probe is the body of the health and readiness endpoints.
type Probe struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// Checked reports a probe. Any failed check turns the reply into a 503.
func Checked(w http.ResponseWriter, checks map[string]error, requestID string) {
	probe := Probe{Status: "ok", Checks: make(map[string]string, len(checks))}
	status := http.StatusOK
	for name, err := range checks {
		if err != nil {
			probe.Checks[name] = err.Error()
			probe.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		probe.Checks[name] = "ok"
	}
	WriteJSON(w, status, Envelope{Success: status == http.StatusOK, Data: probe, RequestID: requestID})
}
