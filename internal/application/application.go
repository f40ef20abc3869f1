package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/wpenv/internal/api"
	"github.com/eugenenazirov/wpenv/internal/config"
	"github.com/eugenenazirov/wpenv/internal/wpconfig"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	result  *wpconfig.Result
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// Configure resolves the WordPress constants for cfg.BasePath from environ.
func Configure(cfg config.Config, logger *zap.Logger, environ []string) (*wpconfig.Result, error) {
	configurator := wpconfig.New(
		wpconfig.WithLogger(logger),
		wpconfig.WithDotenvFiles(cfg.DotenvFiles...),
	)
	result, err := configurator.Configure(cfg.BasePath, environ, nil)
	if err != nil {
		return nil, fmt.Errorf("configure %s: %w", cfg.BasePath, err)
	}
	return result, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, environ []string) (*App, error) {
	result, err := Configure(cfg, logger, environ)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(result.Registry, api.Installation{
		BasePath:   result.BasePath,
		PublicPath: result.PublicPath,
		Layout:     result.Layout.String(),
	})
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		result:  result,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler routes API requests and answers the root path with an
// index of the available endpoints.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, strings.Join(endpoints, "\n"))
	}))
	return mux
}

var endpoints = []string{
	"GET /api/health",
	"GET /api/constants",
	"GET /api/constants/{name}",
	"GET /api/export?format=php|dotenv|json|yaml",
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("base_path", a.result.BasePath),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Result returns the configuration pass the server exposes.
func (a *App) Result() *wpconfig.Result {
	return a.result
}
