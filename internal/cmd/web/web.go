// Package web parses web service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/reading.space/internal/platform/cmd"
	"github.com/louisbranch/reading.space/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"READING_SPACE_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	AuthBaseURL         string        `env:"READING_SPACE_WEB_AUTH_BASE_URL" envDefault:"http://localhost:8081"`
	TrustForwardedProto bool          `env:"READING_SPACE_WEB_TRUST_FORWARDED_PROTO"`
	VerifyRedirectDelay time.Duration `env:"READING_SPACE_WEB_VERIFY_REDIRECT_DELAY" envDefault:"1500ms"`
	Debug               bool          `env:"READING_SPACE_WEB_DEBUG"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth service HTTP base URL")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto for origin checks")
	fs.DurationVar(&cfg.VerifyRedirectDelay, "verify-redirect-delay", cfg.VerifyRedirectDelay, "Pause before leaving the sign-in confirmation page")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log session refresh failures")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AuthBaseURL:         cfg.AuthBaseURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			VerifyRedirectDelay: cfg.VerifyRedirectDelay,
			Debug:               cfg.Debug,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
