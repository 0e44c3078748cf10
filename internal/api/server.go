package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/contestsearch/contestsearch/internal/cache"
	"github.com/contestsearch/contestsearch/internal/logger"
	"github.com/contestsearch/contestsearch/internal/metrics"
	"github.com/contestsearch/contestsearch/internal/solr"
)

// Server serves the search API over the indexed cores.
type Server struct {
	problems *solr.Core
	users    *solr.Core
	cache    *cache.SearchCache
	logger   *zap.Logger
}

// NewServer creates the API server. searchCache may be nil to disable
// response caching.
func NewServer(problems, users *solr.Core, searchCache *cache.SearchCache, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		problems: problems,
		users:    users,
		cache:    searchCache,
		logger:   logger,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())

	r.Get("/api/search/problem", s.handleSearchProblem)
	r.Get("/api/search/user", s.handleSearchUser)
	r.Get("/api/liveness", s.handleLiveness)
	r.Get("/api/readiness", s.handleReadiness)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// requestLogger stores a request-scoped logger in the context so every log
// line of one request carries its id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := s.logger.With(zap.String("request_id", chimw.GetReqID(r.Context())))
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), reqLogger)))
	})
}

// SearchStats is the stats block of a search response.
type SearchStats struct {
	Time   int64          `json:"time"`
	Total  uint32         `json:"total"`
	Index  uint32         `json:"index"`
	Count  uint32         `json:"count"`
	Pages  uint32         `json:"pages"`
	Params map[string]any `json:"params"`
	Facet  any            `json:"facet,omitempty"`
}

// SearchResponse is the body of a search response.
type SearchResponse[I any] struct {
	Stats SearchStats `json:"stats"`
	Items []I         `json:"items"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleSearchProblem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := ParseProblemParams(r.URL.Query())
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	key := "problem:" + r.URL.Query().Encode()
	if data, err := s.cache.Get(r.Context(), key); err == nil {
		metrics.CacheHit()
		writeRawJSON(w, data)
		return
	}
	metrics.CacheMiss()

	res, err := solr.Select[ProblemItem, ProblemFacetCounts](r.Context(), s.problems, params.ToQuery())
	if err != nil {
		logger.FromContext(r.Context()).Error("problem search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	resp := SearchResponse[ProblemItem]{
		Stats: stats(params.in, res.Response.NumFound, uint32(len(res.Response.Docs)), res.Facets, start),
		Items: res.Response.Docs,
	}
	s.writeSearchResponse(w, r, key, resp)
}

func (s *Server) handleSearchUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := ParseUserParams(r.URL.Query())
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	key := "user:" + r.URL.Query().Encode()
	if data, err := s.cache.Get(r.Context(), key); err == nil {
		metrics.CacheHit()
		writeRawJSON(w, data)
		return
	}
	metrics.CacheMiss()

	res, err := solr.Select[UserItem, UserFacetCounts](r.Context(), s.users, params.ToQuery())
	if err != nil {
		logger.FromContext(r.Context()).Error("user search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	resp := SearchResponse[UserItem]{
		Stats: stats(params.in, res.Response.NumFound, uint32(len(res.Response.Docs)), res.Facets, start),
		Items: res.Response.Docs,
	}
	s.writeSearchResponse(w, r, key, resp)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if _, err := s.problems.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("liveness ping failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "engine unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	for _, core := range []*solr.Core{s.problems, s.users} {
		if _, err := core.Status(r.Context()); err != nil {
			if errors.Is(err, solr.ErrCoreNotFound) {
				logger.FromContext(r.Context()).Warn("core is not loaded", zap.Error(err))
			} else {
				logger.FromContext(r.Context()).Warn("readiness check failed", zap.Error(err))
			}
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func stats(in searchInput, total, count uint32, facets any, start time.Time) SearchStats {
	pages := uint32(0)
	if total > 0 {
		pages = (total + in.Limit - 1) / in.Limit
	}
	return SearchStats{
		Time:   time.Since(start).Milliseconds(),
		Total:  total,
		Index:  in.Page,
		Count:  count,
		Pages:  pages,
		Params: in.echo(),
		Facet:  facets,
	}
}

// writeSearchResponse serializes once, caching the exact bytes it sends.
// Only successful responses are cached.
func (s *Server) writeSearchResponse(w http.ResponseWriter, r *http.Request, key string, resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.FromContext(r.Context()).Error("serialize search response", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}
	if err := s.cache.Set(r.Context(), key, data); err != nil {
		logger.FromContext(r.Context()).Warn("cache search response", zap.Error(err))
	}
	writeRawJSON(w, data)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Info("rejected search request", zap.Error(err))
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Code: status, Message: message})
}
