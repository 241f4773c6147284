package web

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/reading.space/internal/services/web/magiclink"
	apperrors "github.com/louisbranch/reading.space/internal/services/web/platform/errors"
	"github.com/louisbranch/reading.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/reading.space/internal/services/web/platform/i18n"
	"github.com/louisbranch/reading.space/internal/services/web/platform/metrics"
	"github.com/louisbranch/reading.space/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/reading.space/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
	"github.com/louisbranch/reading.space/internal/services/web/session"
	"github.com/louisbranch/reading.space/internal/services/web/templates"
)

var reasonKeys = map[string]string{
	magiclink.ReasonMissingToken: "verify.missing_token",
	magiclink.ReasonInvalidLink:  "verify.invalid_link",
}

type handlers struct {
	logger      *log.Logger
	metrics     *metrics.Metrics
	policy      requestmeta.SchemePolicy
	verifyDelay time.Duration
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, mountSession(r))
	page.Title = templates.T(page.Loc, "home.title")
	writePage(w, r, h.logger, http.StatusOK, page, templates.Home(page.Loc, page.Viewer))
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, mountSession(r))
	page.Title = templates.T(page.Loc, "error.title")
	writePage(w, r, h.logger, http.StatusNotFound, page, templates.Error(page.Loc, ""))
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "dashboard.title", "dashboard.lead")
}

func (h *handlers) curriculum(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "curriculum.title", "curriculum.lead")
}

// area renders a protected placeholder. The route guard has already
// required the session cookie; the Provider only personalizes.
func (h *handlers) area(w http.ResponseWriter, r *http.Request, titleKey, leadKey string) {
	page := pageFor(r, mountSession(r))
	page.Title = templates.T(page.Loc, titleKey)
	w.Header().Set("Cache-Control", "private, no-store")
	writePage(w, r, h.logger, http.StatusOK, page, templates.Area(page.Loc, titleKey, leadKey, page.Viewer))
}

func (h *handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, mountSession(r))
	page.Title = templates.T(page.Loc, "login.title")
	view := templates.LoginView{Next: routepath.SafeNext(r.URL.Query().Get(routepath.NextParam))}
	writePage(w, r, h.logger, http.StatusOK, page, templates.Login(page.Loc, view))
}

// requestLink asks the backend to email a sign-in link. Unless the address is
// malformed or the backend is down, the answer is the same "check your inbox"
// page whether or not the address has an account.
func (h *handlers) requestLink(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, session.Snapshot{})
	page.Title = templates.T(page.Loc, "login.title")
	if !requestmeta.HasSameOriginProof(r, h.policy) {
		h.writeError(w, r, page, http.StatusForbidden, "error.origin_required")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, page, http.StatusBadRequest, "error.try_again")
		return
	}
	view := templates.LoginView{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Next:  routepath.SafeNext(r.PostFormValue(routepath.NextParam)),
	}
	backend, ok := backendFromRequest(r)
	if !ok {
		h.writeError(w, r, page, http.StatusInternalServerError, "error.try_again")
		return
	}

	err := backend.RequestLink(r.Context(), view.Email, view.Next)
	h.metrics.LinkRequest(err == nil)
	switch kind := apperrors.KindOf(err); {
	case err == nil:
	case kind == apperrors.KindInvalidInput:
		view.ErrorKey = errorKey(err, "error.email_required")
		writePage(w, r, h.logger, http.StatusBadRequest, page, templates.Login(page.Loc, view))
		return
	case kind == apperrors.KindUnavailable, kind == apperrors.KindUnknown:
		h.logger.Printf("web: link request failed request_id=%s err=%v", httpx.RequestIDFromContext(r.Context()), err)
		view.ErrorKey = errorKey(err, "error.auth_unavailable")
		writePage(w, r, h.logger, http.StatusServiceUnavailable, page, templates.Login(page.Loc, view))
		return
	default:
		// Rejections that could reveal whether the address exists read the
		// same as success.
		h.logger.Printf("web: link request rejected kind=%s request_id=%s", kind, httpx.RequestIDFromContext(r.Context()))
	}
	view.Sent = true
	writePage(w, r, h.logger, http.StatusOK, page, templates.Login(page.Loc, view))
}

// verify completes sign-in from an emailed link. It runs one Verifier for
// this page load and relays the backend's session cookie to the browser.
func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	// Link scanners send HEAD; only a page load may spend the token.
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	state, _ := session.FromContext(r.Context())
	backend, ok := backendFromRequest(r)
	var exchanger magiclink.Exchanger
	if ok {
		exchanger = backend
	}
	query := r.URL.Query()
	landing := routepath.SafeNext(query.Get(routepath.NextParam))
	v := magiclink.NewVerifier(exchanger, state,
		magiclink.WithLanding(landing),
		magiclink.WithDelay(h.verifyDelay),
		magiclink.WithLogger(h.logger),
		magiclink.WithOutcomeObserver(func(o magiclink.Outcome) {
			h.metrics.Verification(string(o.State))
		}),
	)
	out := v.Run(r.Context(), query.Get(routepath.TokenParam))
	if ok {
		sessioncookie.Forward(w, backend.ResponseCookies())
	}

	snap := session.Snapshot{}
	if state != nil {
		snap = state.Snapshot()
	}
	page := pageFor(r, snap)
	page.Title = templates.T(page.Loc, "verify.title")

	if out.State != magiclink.StateSucceeded {
		view := templates.VerifyView{ReasonKey: reasonKeys[out.Reason]}
		writePage(w, r, h.logger, http.StatusOK, page, templates.Verify(page.Loc, view))
		return
	}
	refresh := &templates.Refresh{To: out.Redirect.To, After: out.Redirect.After}
	page.Refresh = refresh
	w.Header().Set("Refresh", refresh.HeaderValue())
	view := templates.VerifyView{Succeeded: true, ContinueTo: out.Redirect.To}
	writePage(w, r, h.logger, http.StatusOK, page, templates.Verify(page.Loc, view))
}

// logout ends the backend session and relays its cookie-clearing header.
func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	page := pageFor(r, session.Snapshot{})
	if !requestmeta.HasSameOriginProof(r, h.policy) {
		h.writeError(w, r, page, http.StatusForbidden, "error.origin_required")
		return
	}
	backend, ok := backendFromRequest(r)
	if !ok {
		h.writeError(w, r, page, http.StatusInternalServerError, "error.try_again")
		return
	}
	if !sessioncookie.Present(r) {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	if err := backend.Logout(r.Context()); err != nil {
		h.logger.Printf("web: logout failed request_id=%s err=%v", httpx.RequestIDFromContext(r.Context()), err)
		if apperrors.KindOf(err) == apperrors.KindUnavailable {
			sessioncookie.Forward(w, backend.ResponseCookies())
			h.writeError(w, r, page, http.StatusServiceUnavailable, "error.try_again")
			return
		}
	}
	sessioncookie.Forward(w, backend.ResponseCookies())
	if state, ok := session.FromContext(r.Context()); ok {
		state.SetUser(nil)
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

// errorKey returns the localization key carried by err when the page catalog
// has copy for it, and fallback otherwise.
func errorKey(err error, fallback string) string {
	if key := apperrors.LocalizationKey(err); key != "" && i18n.Has(key) {
		return key
	}
	return fallback
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, page templates.Page, status int, messageKey string) {
	page.Title = templates.T(page.Loc, "error.title")
	writePage(w, r, h.logger, status, page, templates.Error(page.Loc, messageKey))
}
