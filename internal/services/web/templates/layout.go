// Package templates renders the web tier's HTML pages.
package templates

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/reading.space/internal/services/web/routepath"
)

// Viewer is what the page shell knows about the current visitor.
type Viewer struct {
	SignedIn bool
	Name     string
}

// Page carries the shared layout inputs.
type Page struct {
	Title  string
	Lang   string
	Loc    Localizer
	Viewer Viewer
	// Refresh, when set, makes the browser navigate after a pause.
	Refresh *Refresh
}

// Refresh is a delayed client-side navigation.
type Refresh struct {
	To    string
	After time.Duration
}

// Seconds returns the pause rounded up to whole seconds, as used by the
// Refresh header and meta tag.
func (r Refresh) Seconds() int {
	if r.After <= 0 {
		return 0
	}
	return int(math.Ceil(r.After.Seconds()))
}

// HeaderValue formats r for the HTTP Refresh header.
func (r Refresh) HeaderValue() string {
	return fmt.Sprintf("%d; url=%s", r.Seconds(), r.To)
}

// Layout wraps the children from ctx in the document shell.
func Layout(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		lang := p.Lang
		if lang == "" {
			lang = "en-US"
		}
		site := T(p.Loc, "site.name")
		title := site
		if p.Title != "" {
			title = p.Title + " | " + site
		}

		h.raw("<!doctype html>\n<html")
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		if p.Refresh != nil {
			h.raw(`<meta http-equiv="refresh"`)
			h.attr("content", p.Refresh.HeaderValue())
			h.raw(">")
		}
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", routepath.Theme)
		h.raw("><title>")
		h.text(title)
		h.raw("</title></head><body><header><nav>")
		h.link(routepath.Root, site)
		h.raw(" ")
		if p.Viewer.SignedIn {
			h.link(routepath.Dashboard, T(p.Loc, "nav.dashboard"))
			h.raw(" ")
			h.link(routepath.Curriculum, T(p.Loc, "nav.curriculum"))
			h.raw(` <span class="viewer">`)
			h.text(T(p.Loc, "page.signed_in_as", p.Viewer.Name))
			h.raw(`</span> <form method="post"`)
			h.attr("action", routepath.Logout)
			h.raw(`><button type="submit">`)
			h.text(T(p.Loc, "nav.sign_out"))
			h.raw("</button></form>")
		} else {
			h.link(routepath.Login, T(p.Loc, "nav.sign_in"))
		}
		h.raw("</nav></header><main>")
		if h.err != nil {
			return h.err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main></body></html>\n")
		return h.err
	})
}
