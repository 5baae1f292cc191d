package email

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/signon/internal/provider"
	"github.com/dropDatabas3/signon/internal/rate"
	tokens "github.com/dropDatabas3/signon/internal/security/token"
	"github.com/dropDatabas3/signon/internal/signin"
	"github.com/dropDatabas3/signon/internal/store/adapters/memory"
)

type fakeSender struct {
	to, subject, html, text string
	calls                   int
	err                     error
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	f.calls++
	f.to, f.subject, f.html, f.text = to, subject, htmlBody, textBody
	return f.err
}

func issuerOpts() *signin.Options {
	return &signin.Options{
		BaseURL:  "https://auth.example.com/v1/auth",
		Provider: provider.Provider{ID: "email", Name: "Email", Kind: provider.KindEmail},
	}
}

// linkFromText extrae el magic link del cuerpo de texto plano.
func linkFromText(t *testing.T, body string) *url.URL {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			u, err := url.Parse(line)
			if err != nil {
				t.Fatalf("parse link %q: %v", line, err)
			}
			return u
		}
	}
	t.Fatalf("el cuerpo no contiene link:\n%s", body)
	return nil
}

func TestIssueGuardaHashYDespachaLink(t *testing.T) {
	conn := memory.NewConnection()
	sender := &fakeSender{}
	iss := NewIssuer(sender, conn.VerificationTokens(), nil, time.Hour, nil)
	opts := issuerOpts()

	redirect, err := iss.Issue(context.Background(), "u@x.com", opts)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if redirect != opts.BaseURL+"/verify-request?provider=email&type=email" {
		t.Fatalf("redirect %q", redirect)
	}
	if sender.calls != 1 || sender.to != "u@x.com" {
		t.Fatalf("sender: %d llamadas a %q", sender.calls, sender.to)
	}
	if !strings.Contains(sender.subject, "auth.example.com") {
		t.Fatalf("subject %q sin host", sender.subject)
	}

	link := linkFromText(t, sender.text)
	if !strings.HasPrefix(link.String(), opts.BaseURL+"/callback/email?") {
		t.Fatalf("link %q fuera del callback del provider", link)
	}
	q := link.Query()
	if q.Get("email") != "u@x.com" {
		t.Fatalf("link sin email: %q", link)
	}
	secret := q.Get("token")
	if secret == "" {
		t.Fatalf("link sin token: %q", link)
	}

	// se persiste el hash, nunca el secreto
	stored, err := conn.VerificationTokens().Get(context.Background(), "u@x.com", tokens.SHA256Hex(secret))
	if err != nil || stored == nil {
		t.Fatalf("token no almacenado por hash: %v, %v", stored, err)
	}
	if plain, _ := conn.VerificationTokens().Get(context.Background(), "u@x.com", secret); plain != nil {
		t.Fatal("el secreto plano quedó persistido")
	}
}

func TestIssueReemplazaChallengeAnterior(t *testing.T) {
	conn := memory.NewConnection()
	sender := &fakeSender{}
	iss := NewIssuer(sender, conn.VerificationTokens(), nil, time.Hour, nil)
	opts := issuerOpts()

	if _, err := iss.Issue(context.Background(), "u@x.com", opts); err != nil {
		t.Fatalf("Issue 1: %v", err)
	}
	primero := linkFromText(t, sender.text).Query().Get("token")

	if _, err := iss.Issue(context.Background(), "u@x.com", opts); err != nil {
		t.Fatalf("Issue 2: %v", err)
	}

	if tok, _ := conn.VerificationTokens().Get(context.Background(), "u@x.com", tokens.SHA256Hex(primero)); tok != nil {
		t.Fatal("el primer challenge seguía canjeable tras la re-emisión")
	}
}

func TestIssueRateLimited(t *testing.T) {
	conn := memory.NewConnection()
	sender := &fakeSender{}
	lim := rate.NewMemoryLimiter(1, time.Hour)
	iss := NewIssuer(sender, conn.VerificationTokens(), nil, time.Hour, lim)
	opts := issuerOpts()

	if _, err := iss.Issue(context.Background(), "u@x.com", opts); err != nil {
		t.Fatalf("Issue 1: %v", err)
	}
	if _, err := iss.Issue(context.Background(), "u@x.com", opts); err == nil {
		t.Fatal("el segundo Issue debía ser rechazado por rate limit")
	}
	if sender.calls != 1 {
		t.Fatalf("sender llamado %d veces", sender.calls)
	}
}

func TestIssueSenderFalla(t *testing.T) {
	conn := memory.NewConnection()
	sender := &fakeSender{err: errors.New("smtp 421")}
	iss := NewIssuer(sender, conn.VerificationTokens(), nil, time.Hour, nil)

	if _, err := iss.Issue(context.Background(), "u@x.com", issuerOpts()); err == nil {
		t.Fatal("Issue debía propagar el fallo del sender")
	}
}
