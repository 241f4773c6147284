// Package web is the browser-facing tier of reading.space.
//
// It composes the route guard, the per-request session state and the
// magic-link verification page on top of the auth backend's HTTP API. The web
// tier never issues or inspects credentials: it tests the session cookie for
// presence and relays whatever the backend sets.
package web
