package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ymorita/solventory/internal/auth"
	"github.com/ymorita/solventory/internal/labelscan"
	"github.com/ymorita/solventory/internal/metrics"
	"github.com/ymorita/solventory/internal/sdsstore"
	"github.com/ymorita/solventory/internal/service"
	"github.com/ymorita/solventory/internal/store"
)

// Dependencies wires the server. Scanner may be nil when label scanning is
// disabled.
type Dependencies struct {
	Adjustments *service.AdjustmentService
	Lookup      *service.LookupService
	Catalog     *service.CatalogService
	Sessions    *auth.Manager
	SDSMeta     *store.SDSStore
	SDSBlobs    sdsstore.BlobStore
	Scanner     labelscan.Scanner
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

type Server struct {
	adjustments *service.AdjustmentService
	lookup      *service.LookupService
	catalog     *service.CatalogService
	sessions    *auth.Manager
	sdsMeta     *store.SDSStore
	sdsBlobs    sdsstore.BlobStore
	scanner     labelscan.Scanner
	metrics     *metrics.Metrics
	mux         *http.ServeMux
	logger      *slog.Logger
}

func NewServer(d Dependencies) *Server {
	s := &Server{
		adjustments: d.Adjustments,
		lookup:      d.Lookup,
		catalog:     d.Catalog,
		sessions:    d.Sessions,
		sdsMeta:     d.SDSMeta,
		sdsBlobs:    d.SDSBlobs,
		scanner:     d.Scanner,
		metrics:     d.Metrics,
		mux:         http.NewServeMux(),
		logger:      d.Logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/session", s.handleSession)

	s.mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	s.mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /api/solvents", s.handleListSolvents)
	s.mux.HandleFunc("POST /api/solvents", s.handleCreateSolvent)

	s.mux.HandleFunc("GET /api/inventory", s.handleListInventory)
	s.mux.HandleFunc("POST /api/inventory", s.handleCreateInventory)
	s.mux.HandleFunc("GET /api/inventory/{id}", s.handleInventoryDetail)
	s.mux.HandleFunc("POST /api/inventory/{id}/adjustments", s.handleAdjust)

	s.mux.HandleFunc("GET /api/search/candidates", s.handleSearchCandidates)

	s.mux.HandleFunc("PUT /api/solvents/{id}/sds", s.handleUploadSDS)
	s.mux.HandleFunc("GET /api/solvents/{id}/sds", s.handleGetSDS)

	s.mux.HandleFunc("POST /api/labels/scan", s.handleLabelScan)

	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := requestLogger(s.logger, securityHeaders(s.sessions.Middleware(s.mux)))
	handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// requireActor returns the authenticated actor or writes a 401.
func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
		return "", false
	}
	return actor, true
}
