// Package i18n resolves the page language and holds localized page copy.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// LangParam selects a language explicitly.
const LangParam = "lang"

var (
	english    = language.MustParse("en-US")
	portuguese = language.MustParse("pt-BR")

	supported = []language.Tag{english, portuguese}
	matcher   = language.NewMatcher(supported)
)

// Supported returns the languages with page copy.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Default returns the fallback language.
func Default() language.Tag {
	return english
}

// ResolveTag picks the page language from the lang query parameter, then
// Accept-Language, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return match(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return match(tags...)
		}
	}
	return Default()
}

func match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// Printer returns a printer bound to the page catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(match(tag), message.Catalog(pageCatalog))
}

var pageCatalog = mustBuildCatalog()

func mustBuildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(english))
	for key, value := range englishMessages {
		if err := b.SetString(english, key, value); err != nil {
			panic(err)
		}
	}
	for key, value := range portugueseMessages {
		if err := b.SetString(portuguese, key, value); err != nil {
			panic(err)
		}
	}
	return b
}

// Has reports whether key has page copy.
func Has(key string) bool {
	_, ok := englishMessages[key]
	return ok
}
