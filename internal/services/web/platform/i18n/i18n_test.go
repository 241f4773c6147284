package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		accept string
		want   language.Tag
	}{
		{name: "default", target: "/", want: english},
		{name: "accept portuguese", target: "/", accept: "pt-BR,pt;q=0.9", want: portuguese},
		{name: "accept bare portuguese", target: "/", accept: "pt", want: portuguese},
		{name: "unsupported accept", target: "/", accept: "ja", want: english},
		{name: "query wins", target: "/?lang=pt-BR", accept: "en-US", want: portuguese},
		{name: "bad query falls back to header", target: "/?lang=!!", accept: "pt-BR", want: portuguese},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			if got := ResolveTag(req); got != tc.want {
				t.Fatalf("ResolveTag() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPrinterTranslatesAndFallsBack(t *testing.T) {
	t.Parallel()

	pt := Printer(portuguese)
	if got := pt.Sprintf("nav.sign_in"); got != "Entrar" {
		t.Fatalf("pt nav.sign_in = %q", got)
	}
	if got := pt.Sprintf("home.greeting", "Ana"); got != "Bem-vindo de volta, Ana." {
		t.Fatalf("pt greeting = %q", got)
	}
	if got := Printer(language.Japanese).Sprintf("nav.sign_in"); got != "Sign in" {
		t.Fatalf("ja nav.sign_in = %q, want english", got)
	}
	if got := Printer(english).Sprintf("verify.invalid_link"); got != "This link is invalid or has expired." {
		t.Fatalf("en verify.invalid_link = %q", got)
	}
}

func TestCatalogsDefineSameKeys(t *testing.T) {
	t.Parallel()

	if len(portugueseMessages) != len(englishMessages) {
		t.Fatalf("catalog sizes differ: en=%d pt=%d", len(englishMessages), len(portugueseMessages))
	}
	for key := range portugueseMessages {
		if _, ok := englishMessages[key]; !ok {
			t.Fatalf("portuguese key %q missing from english catalog", key)
		}
	}
}

func TestHas(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"error.auth_unavailable", "error.auth_invalid_input", "error.email_required"} {
		if !Has(key) {
			t.Fatalf("Has(%q) = false, want true", key)
		}
	}
	if Has("error.auth_teapot") {
		t.Fatal("Has(unknown key) = true, want false")
	}
}
