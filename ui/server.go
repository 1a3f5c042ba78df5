// Package ui serves the dashboard pages and their JSON API with gin.
package ui

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"raidash/adapters/excel"
	"raidash/app"
	"raidash/domain/policy"
	"raidash/internal"
	"raidash/internal/errors"
	"raidash/internal/localization"
	"raidash/internal/metrics"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Server represents the dashboard web server
type Server struct {
	router          *gin.Engine
	dashboard       *app.DashboardService
	catalog         *localization.Catalog
	templates       *template.Template
	logger          *internal.Logger
	metrics         *metrics.Registry
	defaultLanguage string
	topN            int
	spreadsheet     *excel.ExcelData
}

// Options carries the optional server dependencies
type Options struct {
	Logger      *internal.Logger
	Metrics     *metrics.Registry
	Language    string
	TopN        int
	Spreadsheet *excel.ExcelData
}

// NewServer creates a new web server instance around a resolved dashboard
func NewServer(dash *app.DashboardService, catalog *localization.Catalog, opts Options) (*Server, error) {
	if dash == nil {
		return nil, errors.ConfigInvalid("dashboard service is required")
	}
	if catalog == nil {
		var err error
		if catalog, err = localization.NewCatalog(); err != nil {
			return nil, errors.Wrap(err, "failed to load localization tables")
		}
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewNopLogger()
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:          gin.New(),
		dashboard:       dash,
		catalog:         catalog,
		templates:       templates,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		defaultLanguage: opts.Language,
		topN:            opts.TopN,
		spreadsheet:     opts.Spreadsheet,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
		"num": func(v float64) string { return fmt.Sprintf("%.3g", v) },

		"markdown":      renderMarkdown,
		"policySection": SectionHTML,
		"cell": func(p policy.LocalPolicy, key string) string {
			return p.Cell(key)
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestID())
	s.router.Use(s.accessLog())
	s.router.Use(s.languageMiddleware())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("static filesystem unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/error-analysis", s.handleErrorAnalysis)
	s.router.GET("/causal", s.handleCausal)

	api := s.router.Group("/api")
	api.GET("/config", s.handleConfig)
	api.GET("/snapshot", s.handleSnapshot)
	api.POST("/matrix", s.handleMatrix)
	api.POST("/predict", s.handlePredict)
	api.GET("/policy", s.handlePolicy)
	api.POST("/policy/render", s.handleRenderPolicy)
	api.POST("/policy/recommend", s.handleRecommend)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dashboard on http://%s (%s)", addr, s.dashboard.Config().Variant)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
