// Package routepath stores canonical HTTP paths for the web tier.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root          = "/"
	Health        = "/up"
	Metrics       = "/metrics"
	Login         = "/login"
	Logout        = "/logout"
	AuthVerify    = "/auth/verify"
	Dashboard     = "/dashboard"
	Curriculum    = "/curriculum"
	DashboardTree = Dashboard + "/"
	CurricTree    = Curriculum + "/"
	Static        = "/static/"
	Theme         = Static + "theme.css"
)

// Query parameter names.
const (
	NextParam  = "next"
	TokenParam = "token"
)

// Landing is where a freshly signed-in user is sent.
const Landing = Dashboard

// ProtectedPrefixes lists the areas that require a session cookie.
// Changing this set requires a rebuild.
var ProtectedPrefixes = []string{Dashboard, Curriculum}

// LoginWithNext returns the sign-in route carrying path as the return
// destination.
func LoginWithNext(path string) string {
	if path == "" {
		return Login
	}
	q := url.Values{}
	q.Set(NextParam, path)
	return Login + "?" + q.Encode()
}

// SafeNext returns raw when it is a same-site absolute path and Landing
// otherwise. Protocol-relative ("//host") and backslash forms are rejected.
func SafeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return Landing
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return Landing
	}
	if strings.ContainsAny(raw, "\r\n") {
		return Landing
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return Landing
	}
	return raw
}
