// Package backend serves the analysis endpoints over HTTP with the
// {data} / {error} envelope, backed by any ports.AnalysisSource.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"raidash/domain/core"
	"raidash/domain/erroranalysis"
	"raidash/internal"
	"raidash/internal/metrics"
	"raidash/ports"
)

const maxBodyBytes = 8 << 20

// Server is the fixture analysis backend
type Server struct {
	router  *chi.Mux
	source  ports.AnalysisSource
	logger  *internal.Logger
	metrics *metrics.Registry
}

// NewServer builds the router around an analysis source
func NewServer(source ports.AnalysisSource, logger *internal.Logger, reg *metrics.Registry) *Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &Server{
		router:  chi.NewRouter(),
		source:  source,
		logger:  logger,
		metrics: reg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestID)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post(ports.EndpointPredict.Path(), s.handlePredict)
	s.router.Post(ports.EndpointMatrix.Path(), s.handleMatrix)
	s.router.Post(ports.EndpointTree.Path(), s.handleTree)
	s.router.Post(ports.EndpointImportances.Path(), s.handleImportances)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("analysis backend listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := core.ParseRequestID(r.Header.Get(core.RequestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		w.Header().Set(core.RequestIDHeader, id.String())
		next.ServeHTTP(w, r.WithContext(core.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(route, r.Method, status, time.Since(start))
		id, _ := core.RequestIDFromContext(r.Context())
		s.logger.Debug("%s %s %d %s request_id=%s", r.Method, r.URL.Path, status, time.Since(start), id)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var rows [][]float64
	if err := decodeBody(r, &rows); err != nil {
		s.writeError(w, r, err)
		return
	}
	preds, err := s.source.Predict(r.Context(), rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, preds)
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req erroranalysis.MatrixRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.source.Matrix(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, m)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var req erroranalysis.TreeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	nodes, err := s.source.Tree(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, nodes)
}

func (s *Server) handleImportances(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxBodyBytes))
	imp, err := s.source.Importances(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, imp)
}

func decodeBody(r *http.Request, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return nil
}
