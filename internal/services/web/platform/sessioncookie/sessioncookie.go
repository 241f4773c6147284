// Package sessioncookie is the web tier's view of the backend session cookie.
//
// The cookie is issued, refreshed and cleared by the auth backend. The web tier
// only reads it to answer "is there a credential" and relays the backend's
// Set-Cookie headers to the browser unchanged.
package sessioncookie

import (
	"net/http"
	"strings"
)

// Name is the session cookie name fixed by the auth backend.
const Name = "rs_access"

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Present reports whether the request carries a non-empty session cookie.
func Present(r *http.Request) bool {
	_, ok := Read(r)
	return ok
}

// Forward copies every Set-Cookie value from a backend response header onto
// the browser response and returns how many were relayed.
func Forward(w http.ResponseWriter, backend http.Header) int {
	if w == nil || backend == nil {
		return 0
	}
	values := backend.Values("Set-Cookie")
	for _, v := range values {
		w.Header().Add("Set-Cookie", v)
	}
	return len(values)
}
