package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// corpusCounter reports the size of the loaded corpus.
type corpusCounter interface {
	Len() int
	Indexed() int
	Words() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db         dbPinger
	corpus     corpusCounter
	dictionary bool
	version    string
}

// NewHealthHandler creates a HealthHandler. dictionary reports whether the
// dictionary lookup is enabled.
func NewHealthHandler(db dbPinger, corpus corpusCounter, dictionary bool, version string) *HealthHandler {
	return &HealthHandler{db: db, corpus: corpus, dictionary: dictionary, version: version}
}

// HealthResponse is the JSON response for /live, /ready and /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Corpus     *CorpusStatus         `json:"corpus,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// CorpusStatus is the size of the in-memory corpus.
type CorpusStatus struct {
	Notes   int `json:"notes"`
	Indexed int `json:"indexed"`
	Words   int `json:"words"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready is the readiness probe: 200 once the corpus is loaded and the
// database answers, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.corpus == nil {
		status = "down"
	} else if _, err := h.ping(r.Context()); err != nil {
		status = "down"
	}
	writeJSON(w, httpStatus(status), HealthResponse{Status: status, Timestamp: time.Now()})
}

// Health is the full health check with component status, corpus size and version.
// A disabled dictionary does not make the service unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]CompStatus, 2)
	status := "ok"

	if latency, err := h.ping(r.Context()); err != nil {
		components["database"] = CompStatus{Status: "down"}
		status = "down"
	} else {
		components["database"] = CompStatus{Status: "ok", Latency: latency.String()}
	}

	if h.dictionary {
		components["dictionary"] = CompStatus{Status: "ok"}
	} else {
		components["dictionary"] = CompStatus{Status: "disabled"}
	}

	resp := HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	}
	if h.corpus != nil {
		resp.Corpus = &CorpusStatus{
			Notes:   h.corpus.Len(),
			Indexed: h.corpus.Indexed(),
			Words:   h.corpus.Words(),
		}
	} else {
		resp.Status = "down"
	}

	writeJSON(w, httpStatus(resp.Status), resp)
}

func (h *HealthHandler) ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	return time.Since(start), err
}

func httpStatus(status string) int {
	if status == "ok" {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v) //nolint:errcheck
}
