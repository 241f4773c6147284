// Package authclient talks to the auth backend on behalf of one browser
// request.
//
// Every call carries the browser's session cookie through a per-request
// cookie jar, and every Set-Cookie the backend returns is kept so the caller
// can relay it to the browser unchanged. The web tier never reads or mints
// the cookie value itself.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/reading.space/internal/services/web/platform/errors"
	"github.com/louisbranch/reading.space/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/reading.space/internal/services/web/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/net/publicsuffix"
)

const tracerName = "github.com/louisbranch/reading.space/internal/services/web/authclient"

// Backend endpoints, relative to the configured base URL.
const (
	PathVerify      = "/auth/magic-link/verify"
	PathMe          = "/auth/me"
	PathRequestLink = "/auth/magic-link"
	PathLogout      = "/auth/logout"
)

const maxBodyBytes = 64 << 10

var (
	// ErrEmptyToken is returned by Exchange when no token is given.
	ErrEmptyToken = errors.New("authclient: token is required")
	// ErrMalformedIdentity is returned when a 2xx body lacks an identity id.
	ErrMalformedIdentity = errors.New("authclient: identity response missing id")
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("authclient: %s: backend status %d", e.Op, e.Code)
}

// Client holds the shared transport and backend location. It is safe for
// concurrent use; per-request state lives in Session.
type Client struct {
	base      *url.URL
	transport http.RoundTripper
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the round tripper shared by all sessions.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithLogger sets the logger for backend failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for the auth backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse auth base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("auth base url %q: scheme must be http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("auth base url %q: host is required", baseURL)
	}
	c := &Client{
		base:      base,
		transport: http.DefaultTransport,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ForRequest starts a Session that forwards r's session cookie.
func (c *Client) ForRequest(r *http.Request) *Session {
	value, _ := sessioncookie.Read(r)
	return c.session(value)
}

func (c *Client) session(cookieValue string) *Session {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if cookieValue != "" {
		jar.SetCookies(c.base, []*http.Cookie{{Name: sessioncookie.Name, Value: cookieValue, Path: "/"}})
	}
	return &Session{
		client: c,
		http: &http.Client{
			Transport: c.transport,
			Jar:       jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		responseCookies: http.Header{},
	}
}

// Session is the backend conversation for one browser request.
type Session struct {
	client *Client
	http   *http.Client

	mu              sync.Mutex
	responseCookies http.Header
}

// ResponseCookies returns the Set-Cookie headers collected from every backend
// response so far, in order.
func (s *Session) ResponseCookies() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responseCookies.Clone()
}

// Exchange trades a one-time link token for a session. On success the
// backend's Set-Cookie headers are available from ResponseCookies.
func (s *Session) Exchange(ctx context.Context, token string) (session.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return session.Identity{}, ErrEmptyToken
	}
	var identity session.Identity
	if err := s.do(ctx, "Exchange", http.MethodPost, PathVerify, map[string]string{"token": token}, &identity); err != nil {
		return session.Identity{}, err
	}
	if err := validateIdentity(identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}

// Me returns the identity that owns the forwarded session cookie.
func (s *Session) Me(ctx context.Context) (session.Identity, error) {
	var identity session.Identity
	if err := s.do(ctx, "Me", http.MethodGet, PathMe, nil, &identity); err != nil {
		return session.Identity{}, err
	}
	if err := validateIdentity(identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}

// RequestLink asks the backend to email a sign-in link. The backend answers
// the same way for known and unknown addresses.
func (s *Session) RequestLink(ctx context.Context, email, next string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.EK(apperrors.KindInvalidInput, "error.email_required", "enter a valid email address", nil)
	}
	body := map[string]string{"email": email}
	if next != "" {
		body["next"] = next
	}
	return s.do(ctx, "RequestLink", http.MethodPost, PathRequestLink, body, nil)
}

// Logout ends the backend session. The clearing Set-Cookie header is
// available from ResponseCookies.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, "Logout", http.MethodPost, PathLogout, nil, nil)
}

func (s *Session) do(ctx context.Context, op, method, path string, in any, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "authclient."+op)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, op+" failed")
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("authclient: encode %s: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.client.base.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("authclient: build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.http.Do(req)
	if err != nil {
		s.client.logger.Printf("web: auth backend unreachable op=%s err=%v", op, err)
		return apperrors.EK(apperrors.KindUnavailable, "error.auth_unavailable", "sign-in is temporarily unavailable", fmt.Errorf("authclient: %s: %w", op, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	s.collect(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		kind := apperrors.KindForStatus(resp.StatusCode)
		if kind == apperrors.KindUnavailable {
			s.client.logger.Printf("web: auth backend error op=%s status=%d", op, resp.StatusCode)
		}
		return apperrors.EK(kind, "error.auth_"+string(kind), "the sign-in service rejected the request", &StatusError{Op: op, Code: resp.StatusCode})
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("authclient: decode %s: %w", op, err)
	}
	return nil
}

func (s *Session) collect(h http.Header) {
	values := h.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.responseCookies.Add("Set-Cookie", v)
	}
}

func validateIdentity(identity session.Identity) error {
	if strings.TrimSpace(identity.ID) == "" {
		return ErrMalformedIdentity
	}
	return nil
}
