package rest

import "net/http"

// Register mounts the gloss and health endpoints on mux.
func Register(mux *http.ServeMux, gloss *GlossHandler, health *HealthHandler) {
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /api/query", gloss.Query)
	mux.HandleFunc("GET /api/freq", gloss.Freq)
	mux.HandleFunc("POST /api/corpus/query", gloss.RecordQuery)
	mux.HandleFunc("GET /api/zdic", gloss.Zdic)
	mux.HandleFunc("GET /api/gloss", gloss.Gloss)
}
