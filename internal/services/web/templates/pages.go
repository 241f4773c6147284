package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
)

// Home renders the landing page body.
func Home(loc Localizer, viewer Viewer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<h1>")
		h.text(T(loc, "home.title"))
		h.raw("</h1><p>")
		h.text(T(loc, "site.tagline"))
		h.raw("</p>")
		if viewer.SignedIn {
			h.raw(`<p class="greeting">`)
			h.text(T(loc, "home.greeting", viewer.Name))
			h.raw("</p>")
		}
		return h.err
	})
}

// LoginView is the sign-in form state.
type LoginView struct {
	Email string
	Next  string
	// Sent is true after a link request was accepted.
	Sent bool
	// ErrorKey names a localized problem to show above the form.
	ErrorKey string
}

// Login renders the sign-in form.
func Login(loc Localizer, v LoginView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<h1>")
		h.text(T(loc, "login.heading"))
		h.raw("</h1>")
		if v.Sent {
			h.raw(`<p class="notice" role="status">`)
			h.text(T(loc, "login.sent"))
			h.raw("</p>")
			return h.err
		}
		if v.ErrorKey != "" {
			h.raw(`<p class="error" role="alert">`)
			h.text(T(loc, v.ErrorKey))
			h.raw("</p>")
		}
		h.raw("<p>")
		h.text(T(loc, "login.lead"))
		h.raw(`</p><form method="post"`)
		h.attr("action", routepath.Login)
		h.raw(`><input type="hidden"`)
		h.attr("name", routepath.NextParam)
		h.attr("value", v.Next)
		h.raw(`><label for="email">`)
		h.text(T(loc, "login.email"))
		h.raw(`</label><input id="email" name="email" type="email" autocomplete="email" required`)
		h.attr("value", v.Email)
		h.raw(`><button type="submit">`)
		h.text(T(loc, "login.submit"))
		h.raw("</button></form>")
		return h.err
	})
}

// VerifyView is the terminal verification state shown to the user.
type VerifyView struct {
	Succeeded bool
	// ReasonKey is the localized failure reason.
	ReasonKey string
	// ContinueTo is the landing page linked on success.
	ContinueTo string
}

// Verify renders the magic-link result.
func Verify(loc Localizer, v VerifyView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		if v.Succeeded {
			h.raw(`<h1 data-state="succeeded">`)
			h.text(T(loc, "verify.success"))
			h.raw("</h1><p>")
			h.text(T(loc, "verify.redirecting"))
			h.raw("</p><p>")
			h.link(v.ContinueTo, T(loc, "verify.continue"))
			h.raw("</p>")
			return h.err
		}
		h.raw(`<h1 data-state="failed">`)
		h.text(T(loc, "verify.failure"))
		h.raw(`</h1><p class="error" role="alert">`)
		h.text(T(loc, v.ReasonKey))
		h.raw("</p><p>")
		h.link(routepath.Login, T(loc, "verify.request_new"))
		h.raw("</p>")
		return h.err
	})
}

// Area renders a signed-in area placeholder.
func Area(loc Localizer, titleKey, leadKey string, viewer Viewer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<h1>")
		h.text(T(loc, titleKey))
		h.raw("</h1><p>")
		h.text(T(loc, leadKey))
		h.raw("</p>")
		if viewer.SignedIn {
			h.raw(`<p class="greeting">`)
			h.text(T(loc, "home.greeting", viewer.Name))
			h.raw("</p>")
		}
		return h.err
	})
}

// Error renders a generic failure with a way back.
func Error(loc Localizer, messageKey string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		if messageKey == "" {
			messageKey = "error.try_again"
		}
		h.raw("<h1>")
		h.text(T(loc, "error.title"))
		h.raw("</h1><p>")
		h.text(T(loc, messageKey))
		h.raw("</p><p>")
		h.link(routepath.Root, T(loc, "site.name"))
		h.raw("</p>")
		return h.err
	})
}
