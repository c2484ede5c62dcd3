package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cloud-ru/finance-engine-go/internal/cache"
	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/metrics"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
)

const maxBodyBytes = 1 << 20

// Server exposes the tool registry over HTTP.
type Server struct {
	registry *tools.Registry
	cache    cache.Cache
	limiter  *RateLimiter
	log      zerolog.Logger
}

// NewServer builds a Server. cache and limiter may be nil.
func NewServer(registry *tools.Registry, c cache.Cache, limiter *RateLimiter, log zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		cache:    c,
		limiter:  limiter,
		log:      log,
	}
}

// Handler routes the API, metrics and health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/tools/{name}", RateLimitMiddleware(s.limiter, http.HandlerFunc(s.CallTool)))
	mux.HandleFunc("/v1/tools", s.ListTools)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.logRequests(mux)
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	list := s.registry.Tools()
	out := make([]toolInfo, 0, len(list))
	for _, t := range list {
		out = append(out, toolInfo{Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": out})
}

type toolResponse struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}

// CallTool runs the tool named in the path with the JSON object body as params.
func (s *Server) CallTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := r.PathValue("name")
	tool, ok := s.registry.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tool "+name)
		return
	}

	params, err := decodeParams(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := tools.WithTransport(r.Context(), "http")

	var key string
	if tool.Cacheable && s.cache != nil {
		if key, err = cache.Key(name, params); err == nil {
			if body, hit := s.cache.Get(ctx, key); hit {
				metrics.CacheLookups.WithLabelValues(name, "hit").Inc()
				w.Header().Set("X-Cache", "HIT")
				writeRaw(w, http.StatusOK, []byte(body))
				return
			}
			metrics.CacheLookups.WithLabelValues(name, "miss").Inc()
		}
	}

	result, err := s.registry.Call(ctx, name, params)
	if err != nil {
		status := statusFor(err)
		s.log.Warn().Err(err).Str("tool", name).Int("status", status).Msg("tool call failed")
		writeError(w, status, err.Error())
		return
	}

	body, err := json.Marshal(toolResponse{Tool: name, Result: result})
	if err != nil {
		s.log.Error().Err(err).Str("tool", name).Msg("failed to encode result")
		writeError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}
	if key != "" {
		if err := s.cache.Set(ctx, key, string(body)); err != nil {
			s.log.Warn().Err(err).Str("tool", name).Msg("failed to cache result")
		}
	}
	writeRaw(w, http.StatusOK, body)
}

func decodeParams(body io.Reader) (map[string]interface{}, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	params := map[string]interface{}{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return params, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, err
	}
	if params == nil {
		return map[string]interface{}{}, nil
	}
	return params, nil
}

// statusFor maps tool errors to HTTP status codes. Input errors take
// precedence over undefined results.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, calculations.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, calculations.ErrUndefinedResult):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
