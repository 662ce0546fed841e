package rest

import (
	"context"
	"net/http"
	"time"
)

// dictionaryPinger checks that the dictionary service is reachable.
type dictionaryPinger interface {
	Ping(ctx context.Context) error
}

type sessionCounter interface {
	Len() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	dictionary dictionaryPinger
	sessions   sessionCounter
	version    string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(dictionary dictionaryPinger, sessions sessionCounter, version string) *HealthHandler {
	return &HealthHandler{dictionary: dictionary, sessions: sessions, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Sessions   *int                  `json:"sessions,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings the dictionary: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.dictionary.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check. Pings the dictionary with latency
// measurement and includes version and live session count.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.dictionary.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["dictionary"] = CompStatus{Status: "down"}
		overallStatus = "down"
	} else {
		components["dictionary"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	sessions := h.sessions.Len()
	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Sessions:   &sessions,
		Components: components,
		Timestamp:  time.Now(),
	})
}
