package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cougar-robotics/cougarlog/pkg/analysis"
	"github.com/cougar-robotics/cougarlog/pkg/export"
	"github.com/cougar-robotics/cougarlog/pkg/query"
	"github.com/cougar-robotics/cougarlog/pkg/session"
	"github.com/cougar-robotics/cougarlog/pkg/storage"
	"github.com/cougar-robotics/cougarlog/pkg/wpilog"
)

// maxUploadBytes caps the accepted log size. Match-day logs run tens of
// megabytes; anything past this is not a log we want in memory.
const maxUploadBytes = 512 << 20

// Server holds the API server state.
type Server struct {
	store   ISessionStore
	engine  *query.Engine
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server.
func NewServer(store ISessionStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		engine:  query.NewEngine(store),
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleUploadLog accepts a raw .wpilog body, decodes it and stores the
// resulting session.
func (s *Server) handleUploadLog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxUploadBytes {
		sendError(w, "Log exceeds maximum upload size", http.StatusRequestEntityTooLarge)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload"
	}

	sess, err := session.Decode(body)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDecode(false, time.Since(start), 0, 0, false)
		}
		if errors.Is(err, wpilog.ErrNotWPILOG) {
			sendError(w, "Body is not a valid WPILOG file", http.StatusBadRequest)
			return
		}
		sendError(w, fmt.Sprintf("Failed to decode log: %v", err), http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDecode(len(sess.Errors) == 0, time.Since(start), sess.RecordCount, len(sess.Samples), sess.Truncated())
	}

	meta, err := s.store.Put(source, sess)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreOperation("put", false)
		}
		sendError(w, fmt.Sprintf("Failed to store session: %v", err), http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("put", true)
	}

	sendSuccess(w, UploadResponse{Session: meta})
}

// handleListLogs lists all stored sessions.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List()
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreOperation("list", false)
		}
		sendError(w, fmt.Sprintf("Failed to list sessions: %v", err), http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("list", true)
	}
	if sessions == nil {
		sessions = []storage.SessionMeta{}
	}
	sendSuccess(w, sessions)
}

// handleGetLog returns the metadata of one stored session.
func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.sendStoreError(w, "get", err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("get", true)
	}
	sendSuccess(w, meta)
}

// handleDeleteLog removes a stored session.
func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.sendStoreError(w, "delete", err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("delete", true)
	}
	sendSuccess(w, map[string]string{"message": "Session deleted"})
}

// handleStreams lists the streams declared in a stored session.
func (s *Server) handleStreams(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.sendStoreError(w, "get", err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("get", true)
	}
	streams := meta.Streams
	if streams == nil {
		streams = []session.StreamInfo{}
	}
	sendSuccess(w, streams)
}

// handleSamples returns the samples of one stream, optionally narrowed to
// a timestamp range via start/end query parameters.
func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	q, ok := s.sampleQueryFromRequest(w, r)
	if !ok {
		return
	}

	it, err := s.engine.Query(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		s.sendStoreError(w, "query", err)
		return
	}
	samples := query.Collect(it)
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("query", true)
	}
	if samples == nil {
		samples = []session.Sample{}
	}
	sendSuccess(w, samples)
}

// handleStats returns the five-number summary, mean and derivative series
// of one numeric stream over a timestamp range.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q, ok := s.sampleQueryFromRequest(w, r)
	if !ok {
		return
	}

	it, err := s.engine.Query(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		s.sendStoreError(w, "query", err)
		return
	}
	samples := query.Collect(it)

	summary, err := analysis.Summarize(samples)
	if err != nil {
		if errors.Is(err, analysis.ErrNoNumericSamples) {
			sendError(w, fmt.Sprintf("Stream %q has no numeric samples in range", q.Stream), http.StatusBadRequest)
			return
		}
		sendError(w, fmt.Sprintf("Failed to summarize stream: %v", err), http.StatusInternalServerError)
		return
	}

	first := analysis.Differentiate(analysis.Numeric(samples))
	second := analysis.Differentiate(first)

	sendSuccess(w, StatsResponse{
		Stream:           q.Stream,
		Summary:          summary,
		FirstDerivative:  first,
		SecondDerivative: second,
	})
}

// handleExport streams the whole session as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	samples, err := s.store.AllSamples(id)
	if err != nil {
		s.sendStoreError(w, "export", err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordStoreOperation("export", true)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
	if err := export.WriteCSV(w, samples); err != nil {
		// Headers are already out; nothing left to do but log-style bail.
		return
	}
}

// sampleQueryFromRequest builds a SampleQuery from the stream/start/end
// query parameters, writing the error response itself on failure.
func (s *Server) sampleQueryFromRequest(w http.ResponseWriter, r *http.Request) (query.SampleQuery, bool) {
	q := query.SampleQuery{Stream: r.URL.Query().Get("stream")}
	if q.Stream == "" {
		sendError(w, "Query parameter 'stream' is required", http.StatusBadRequest)
		return q, false
	}
	var err error
	if raw := r.URL.Query().Get("start"); raw != "" {
		if q.Start, err = strconv.ParseFloat(raw, 64); err != nil {
			sendError(w, "Query parameter 'start' must be a timestamp in seconds", http.StatusBadRequest)
			return q, false
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if q.End, err = strconv.ParseFloat(raw, 64); err != nil {
			sendError(w, "Query parameter 'end' must be a timestamp in seconds", http.StatusBadRequest)
			return q, false
		}
	}
	if err := q.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return q, false
	}
	return q, true
}

// sendStoreError maps store errors onto HTTP responses and records the
// operation outcome.
func (s *Server) sendStoreError(w http.ResponseWriter, operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(operation, false)
	}
	if errors.Is(err, storage.ErrSessionNotFound) {
		sendError(w, "Session not found", http.StatusNotFound)
		return
	}
	sendError(w, fmt.Sprintf("Store operation failed: %v", err), http.StatusInternalServerError)
}
