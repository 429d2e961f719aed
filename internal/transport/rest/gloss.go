package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/service/glossary"
)

const maxBodyBytes = 64 << 10

// glossService defines the minimal interface needed by GlossHandler.
type glossService interface {
	Lookup(q string) []domain.Note
	FreqDetail(ctx context.Context, word string, page int) (*glossary.FreqDetail, error)
	RecordQuery(ctx context.Context, in glossary.RecordQueryInput) (domain.QueryRecord, error)
	Stream(ctx context.Context, in glossary.StreamInput, emit func(glossary.StreamItem) error) error
}

// definitionService defines the minimal interface needed by the dictionary endpoint.
type definitionService interface {
	GetOrFetch(ctx context.Context, word string) (domain.Definition, error)
}

// GlossHandler serves the gloss REST endpoints.
type GlossHandler struct {
	svc         glossService
	definitions definitionService
	log         *slog.Logger
}

// NewGlossHandler creates a GlossHandler. definitions may be nil, in which
// case the dictionary endpoint answers 503.
func NewGlossHandler(svc glossService, definitions definitionService, logger *slog.Logger) *GlossHandler {
	return &GlossHandler{
		svc:         svc,
		definitions: definitions,
		log:         logger.With("handler", "gloss"),
	}
}

// Query returns the textbook notes matching every character of q.
// GET /api/query?q=
func (h *GlossHandler) Query(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Lookup(r.URL.Query().Get("q")))
}

// Freq returns the frequency detail of a word.
// GET /api/freq?word=&page=
func (h *GlossHandler) Freq(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}

	detail, err := h.svc.FreqDetail(r.Context(), r.URL.Query().Get("word"), page)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFreqResponse(detail))
}

// RecordQuery counts and stores one live query.
// POST /api/corpus/query
func (h *GlossHandler) RecordQuery(w http.ResponseWriter, r *http.Request) {
	var req recordQueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.RecordQuery(r.Context(), glossary.RecordQueryInput{
		Word:    req.Word,
		Context: req.Context,
		Answer:  req.Answer,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQueryRecordResponse(rec))
}

// Zdic returns the dictionary definitions of a word.
// GET /api/zdic?word=
func (h *GlossHandler) Zdic(w http.ResponseWriter, r *http.Request) {
	if h.definitions == nil {
		writeError(w, http.StatusServiceUnavailable, "dictionary disabled")
		return
	}

	def, err := h.definitions.GetOrFetch(r.Context(), r.URL.Query().Get("word"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toZdicResponse(def))
}

// Gloss streams the gloss items of a query as newline-delimited JSON, one
// item per line, flushed as soon as it is ready. Errors before the first item
// get a normal JSON error response; later errors end the stream.
// GET /api/gloss?context=&query=
func (h *GlossHandler) Gloss(w http.ResponseWriter, r *http.Request) {
	in := glossary.StreamInput{
		Context: r.URL.Query().Get("context"),
		Query:   r.URL.Query().Get("query"),
	}

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	started := false

	err := h.svc.Stream(r.Context(), in, func(item glossary.StreamItem) error {
		if !started {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := enc.Encode(toStreamItemResponse(item)); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	})
	if err == nil {
		return
	}
	if !started {
		handleError(h.log, w, r, err)
		return
	}
	h.log.WarnContext(r.Context(), "gloss stream aborted",
		slog.String("query", in.Query),
		slog.String("error", err.Error()),
	)
}
