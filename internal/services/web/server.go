package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/reading.space/internal/platform/timeouts"
	"github.com/louisbranch/reading.space/internal/services/web/authclient"
	"github.com/louisbranch/reading.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/reading.space/internal/services/web/platform/metrics"
	"github.com/louisbranch/reading.space/internal/services/web/platform/observability"
	"github.com/louisbranch/reading.space/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/reading.space/internal/services/web/platform/routeguard"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
	"github.com/louisbranch/reading.space/internal/services/web/static"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr    string
	AuthBaseURL string
	// TrustForwardedProto honors X-Forwarded-Proto for origin checks.
	TrustForwardedProto bool
	// VerifyRedirectDelay overrides the pause before leaving the
	// verification page. Zero uses timeouts.VerifyRedirect.
	VerifyRedirectDelay time.Duration
	// Debug logs identity refresh failures.
	Debug bool
	// Logger defaults to log.Default().
	Logger *log.Logger
	// Registry receives the web collectors and is served at /metrics. A fresh
	// registry with Go and process collectors is used when nil.
	Registry *prometheus.Registry
	// AuthTransport overrides the transport used to reach the auth backend.
	AuthTransport http.RoundTripper
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := metrics.New(registry)

	auth, err := authclient.New(cfg.AuthBaseURL, authclient.WithTransport(cfg.AuthTransport), authclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	delay := cfg.VerifyRedirectDelay
	if delay <= 0 {
		delay = timeouts.VerifyRedirect
	}
	h := &handlers{
		logger:      logger,
		metrics:     m,
		policy:      requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		verifyDelay: delay,
	}

	mux := http.NewServeMux()
	staticFS := http.FileServerFS(static.FS)
	mux.Handle("GET "+routepath.Static, http.StripPrefix(strings.TrimSuffix(routepath.Static, "/"), staticFS))
	mux.HandleFunc("GET "+routepath.Health, h.health)
	mux.Handle("GET "+routepath.Metrics, metrics.Handler(registry))
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET "+routepath.Login, h.loginPage)
	mux.HandleFunc("POST "+routepath.Login, h.requestLink)
	mux.Handle(routepath.AuthVerify, httpx.RequireMethod(http.MethodGet)(http.HandlerFunc(h.verify)))
	mux.Handle(routepath.Logout, httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(h.logout)))
	mux.HandleFunc("GET "+routepath.Dashboard, h.dashboard)
	mux.HandleFunc("GET "+routepath.DashboardTree, h.dashboard)
	mux.HandleFunc("GET "+routepath.Curriculum, h.curriculum)
	mux.HandleFunc("GET "+routepath.CurricTree, h.curriculum)
	mux.HandleFunc("/", h.notFound)

	var debugLogger *log.Logger
	if cfg.Debug {
		debugLogger = logger
	}
	guard := routeguard.Default(routeguard.WithMetrics(m), routeguard.WithLogger(debugLogger))

	return httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger, observability.WithMetrics(m)),
		guard.Middleware(),
		withSessionState(auth, m, debugLogger),
	), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
