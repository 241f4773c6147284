package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRead(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatalf("expected nil request to have no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, ok := Read(req); ok {
		t.Fatalf("expected missing cookie")
	}

	req.AddCookie(&http.Cookie{Name: Name, Value: "  tok-1  "})
	value, ok := Read(req)
	if !ok {
		t.Fatalf("expected cookie to be present")
	}
	if value != "tok-1" {
		t.Fatalf("value = %q, want %q", value, "tok-1")
	}
}

func TestPresentIgnoresBlankAndForeignCookies(t *testing.T) {
	t.Parallel()

	blank := httptest.NewRequest(http.MethodGet, "/", nil)
	blank.AddCookie(&http.Cookie{Name: Name, Value: "   "})
	if Present(blank) {
		t.Fatalf("expected blank cookie to count as absent")
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.AddCookie(&http.Cookie{Name: "rs_access_other", Value: "x"})
	if Present(other) {
		t.Fatalf("expected unrelated cookie to count as absent")
	}

	ok := httptest.NewRequest(http.MethodGet, "/", nil)
	ok.AddCookie(&http.Cookie{Name: Name, Value: "opaque"})
	if !Present(ok) {
		t.Fatalf("expected session cookie to be present")
	}
}

func TestForwardRelaysSetCookieVerbatim(t *testing.T) {
	t.Parallel()

	backend := http.Header{}
	backend.Add("Set-Cookie", "rs_access=abc; Path=/; HttpOnly; SameSite=Lax")
	backend.Add("Set-Cookie", "rs_refresh=def; Path=/auth; HttpOnly")
	rr := httptest.NewRecorder()

	if n := Forward(rr, backend); n != 2 {
		t.Fatalf("forwarded = %d, want 2", n)
	}
	got := rr.Header().Values("Set-Cookie")
	if len(got) != 2 {
		t.Fatalf("Set-Cookie count = %d, want 2", len(got))
	}
	if got[0] != "rs_access=abc; Path=/; HttpOnly; SameSite=Lax" {
		t.Fatalf("Set-Cookie[0] = %q", got[0])
	}
	if got[1] != "rs_refresh=def; Path=/auth; HttpOnly" {
		t.Fatalf("Set-Cookie[1] = %q", got[1])
	}
}

func TestForwardToleratesNilInputs(t *testing.T) {
	t.Parallel()

	if n := Forward(nil, http.Header{"Set-Cookie": {"a=b"}}); n != 0 {
		t.Fatalf("forwarded = %d, want 0", n)
	}
	if n := Forward(httptest.NewRecorder(), nil); n != 0 {
		t.Fatalf("forwarded = %d, want 0", n)
	}
}
