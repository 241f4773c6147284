package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
)

func render(t *testing.T, page Page, body templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	ctx := templ.WithChildren(context.Background(), body)
	if err := Layout(page).Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLayoutEscapesViewerName(t *testing.T) {
	t.Parallel()

	out := render(t, Page{Title: "Home", Viewer: Viewer{SignedIn: true, Name: "<script>x</script>"}}, Home(nil, Viewer{}))
	if strings.Contains(out, "<script>x</script>") {
		t.Fatalf("viewer name not escaped: %s", out)
	}
	if !strings.Contains(out, `action="/logout"`) {
		t.Fatalf("signed-in shell missing sign-out form: %s", out)
	}
}

func TestLayoutSignedOutLinksToLogin(t *testing.T) {
	t.Parallel()

	out := render(t, Page{}, Home(nil, Viewer{}))
	if !strings.Contains(out, `href="/login"`) {
		t.Fatalf("signed-out shell missing sign-in link: %s", out)
	}
	if strings.Contains(out, "/logout") {
		t.Fatalf("signed-out shell offers sign-out: %s", out)
	}
}

func TestLayoutRefreshMeta(t *testing.T) {
	t.Parallel()

	page := Page{Refresh: &Refresh{To: "/dashboard", After: 1500 * time.Millisecond}}
	out := render(t, page, Verify(nil, VerifyView{Succeeded: true, ContinueTo: "/dashboard"}))
	if !strings.Contains(out, `http-equiv="refresh" content="2; url=/dashboard"`) {
		t.Fatalf("missing refresh meta: %s", out)
	}
	if !strings.Contains(out, `data-state="succeeded"`) {
		t.Fatalf("missing success state: %s", out)
	}
}

func TestRefreshSecondsRoundsUp(t *testing.T) {
	t.Parallel()

	tests := map[time.Duration]int{
		0:                       0,
		time.Second:             1,
		1500 * time.Millisecond: 2,
		-time.Second:            0,
	}
	for after, want := range tests {
		if got := (Refresh{After: after}).Seconds(); got != want {
			t.Fatalf("Seconds(%v) = %d, want %d", after, got, want)
		}
	}
}

func TestVerifyFailureOffersNewLink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Verify(nil, VerifyView{ReasonKey: "verify.invalid_link"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `data-state="failed"`) || !strings.Contains(out, `href="/login"`) {
		t.Fatalf("failure page = %s", out)
	}
}

func TestLoginKeepsNextAndEscapesEmail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := LoginView{Email: `a"b@example.com`, Next: "/curriculum/plan"}
	if err := Login(nil, v).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `name="next" value="/curriculum/plan"`) {
		t.Fatalf("next not preserved: %s", out)
	}
	if strings.Contains(out, `a"b@`) {
		t.Fatalf("email not escaped: %s", out)
	}
}

func TestLoginSentHidesForm(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Login(nil, LoginView{Sent: true}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<form") {
		t.Fatalf("sent view still renders form: %s", buf.String())
	}
}
