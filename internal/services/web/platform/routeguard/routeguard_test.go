package routeguard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/louisbranch/reading.space/internal/services/web/platform/metrics"
	"github.com/louisbranch/reading.space/internal/services/web/platform/sessioncookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDecidePrefixMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		hasSession bool
		want       Action
	}{
		{"/dashboard", false, Redirect},
		{"/dashboard/settings", false, Redirect},
		{"/dashboard/", false, Redirect},
		{"/dashboard2", false, Allow},
		{"/dashboard2", true, Allow},
		{"/Dashboard", false, Allow},
		{"/curriculum", false, Redirect},
		{"/curriculum/plan", false, Redirect},
		{"/curriculum-old", false, Allow},
		{"/", false, Allow},
		{"/login", false, Allow},
		{"/books/dashboard", false, Allow},
		{"/dashboard", true, Allow},
		{"/curriculum/plan", true, Allow},
	}
	for _, tc := range tests {
		got := Decide(tc.path, tc.hasSession)
		if got.Action != tc.want {
			t.Fatalf("Decide(%q, %v) = %v, want %v", tc.path, tc.hasSession, got.Action, tc.want)
		}
		if got.Action == Allow && got.Target != "" {
			t.Fatalf("Decide(%q, %v) allow carried target %q", tc.path, tc.hasSession, got.Target)
		}
	}
}

func TestDecideRedirectCarriesOriginalPath(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/curriculum/plan", "/dashboard", "/dashboard/shelves/2024"} {
		d := Decide(path, false)
		if d.Action != Redirect {
			t.Fatalf("Decide(%q) = %v, want redirect", path, d.Action)
		}
		u, err := url.Parse(d.Target)
		if err != nil {
			t.Fatalf("parse target %q: %v", d.Target, err)
		}
		if u.Path != "/login" {
			t.Fatalf("target path = %q, want /login", u.Path)
		}
		if got := u.Query().Get("next"); got != path {
			t.Fatalf("next = %q, want %q", got, path)
		}
	}
}

func TestNewNormalizesPrefixes(t *testing.T) {
	t.Parallel()

	g := New([]string{"", " /reading/ ", "/", "/shelf"})
	if !g.Protected("/reading") || !g.Protected("/reading/list") {
		t.Fatal("expected trailing slash prefix to be normalized")
	}
	if g.Protected("/") || g.Protected("/about") {
		t.Fatal("expected root to stay public")
	}
	if !g.Protected("/shelf") {
		t.Fatal("expected /shelf protected")
	}
}

func TestMiddlewareRedirectsWithoutCookie(t *testing.T) {
	t.Parallel()

	reached := false
	h := Default().Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/curriculum/plan", nil))

	if reached {
		t.Fatal("protected handler ran without a session cookie")
	}
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/login?next=%2Fcurriculum%2Fplan" {
		t.Fatalf("Location = %q", got)
	}
}

func TestMiddlewareUsesSeeOtherForPost(t *testing.T) {
	t.Parallel()

	h := Default().Middleware()(http.NotFoundHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/dashboard/shelves", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
}

func TestMiddlewarePassesThroughWithCookie(t *testing.T) {
	t.Parallel()

	h := Default().Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "stale-or-not"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
	if loc := rr.Header().Get("Location"); loc != "" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestMiddlewareRecordsDecisions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := Default(WithMetrics(m)).Middleware()(http.NotFoundHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard2", nil))

	got, err := testutil.GatherAndCount(reg, "reading_space_web_guard_decisions_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 2 {
		t.Fatalf("decision series = %d, want 2", got)
	}
}
