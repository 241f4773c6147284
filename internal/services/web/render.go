package web

import (
	"bytes"
	"log"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/reading.space/internal/services/web/platform/errors"
	"github.com/louisbranch/reading.space/internal/services/web/platform/httpx"
	"github.com/louisbranch/reading.space/internal/services/web/platform/i18n"
	"github.com/louisbranch/reading.space/internal/services/web/session"
	"github.com/louisbranch/reading.space/internal/services/web/templates"
)

// pageFor resolves the language and viewer shared by every page.
func pageFor(r *http.Request, snap session.Snapshot) templates.Page {
	tag := i18n.ResolveTag(r)
	return templates.Page{
		Lang:   tag.String(),
		Loc:    i18n.Printer(tag),
		Viewer: viewerFrom(snap),
	}
}

func viewerFrom(snap session.Snapshot) templates.Viewer {
	if !snap.SignedIn() {
		return templates.Viewer{}
	}
	return templates.Viewer{SignedIn: true, Name: snap.Identity.DisplayName()}
}

// writePage renders body inside the layout and writes it with status.
func writePage(w http.ResponseWriter, r *http.Request, logger *log.Logger, status int, page templates.Page, body templ.Component) {
	var buf bytes.Buffer
	ctx := templ.WithChildren(r.Context(), body)
	if err := templates.Layout(page).Render(ctx, &buf); err != nil {
		logger.Printf("web: render page path=%s request_id=%s err=%v", r.URL.Path, httpx.RequestIDFromContext(r.Context()), err)
		httpx.WriteError(w, apperrors.EK(apperrors.KindUnknown, "error.try_again", "Something went wrong. Please try again.", err))
		return
	}
	if err := httpx.WriteHTML(w, status, buf.String()); err != nil {
		logger.Printf("web: write page path=%s err=%v", r.URL.Path, err)
	}
}
