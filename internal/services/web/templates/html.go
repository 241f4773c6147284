package templates

import (
	"io"

	"github.com/a-h/templ"
)

// html writes markup sequentially and keeps the first error.
type html struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes escaped text.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// link writes an anchor with escaped href and text.
func (h *html) link(href, label string) {
	h.raw("<a")
	h.attr("href", href)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}
