package signin

import (
	"errors"
	"strings"
	"testing"
)

const base = "https://auth.example.com/v1/auth"

func TestErrorKindRedirect(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorOAuthSignin, base + "/error?error=OAuthSignin"},
		{ErrorEmailSignin, base + "/error?error=EmailSignin"},
		{ErrorAccessDenied, base + "/error?error=AccessDenied"},
		{ErrorVerification, base + "/error?error=Verification"},
	}
	for _, tc := range cases {
		out := tc.kind.Redirect(base)
		if out.RedirectURL != tc.want {
			t.Fatalf("%s: redirect %q, want %q", tc.kind, out.RedirectURL, tc.want)
		}
		if !out.IsRedirect() {
			t.Fatalf("%s: outcome no es redirect", tc.kind)
		}
	}
}

func TestCallbackErrorRedirectSaneado(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"mensaje_simple",
			errors.New("user is banned"),
			base + "/error?error=user+is+banned",
		},
		{
			"html_filtrado",
			errors.New(`banned <script>alert(1)</script>`),
			base + "/error?error=banned+scriptalert1script",
		},
		{
			"espacios_colapsados",
			errors.New("too   many\n\tspaces"),
			base + "/error?error=too+many+spaces",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := CallbackErrorRedirect(base, tc.err)
			if out.RedirectURL != tc.want {
				t.Fatalf("redirect %q, want %q", out.RedirectURL, tc.want)
			}
		})
	}
}

func TestCallbackErrorRedirectVacioCaeEnAccessDenied(t *testing.T) {
	out := CallbackErrorRedirect(base, errors.New("💥🔥✨"))
	if out.RedirectURL != base+"/error?error=AccessDenied" {
		t.Fatalf("redirect %q, want AccessDenied", out.RedirectURL)
	}
}

func TestCallbackErrorRedirectTrunca(t *testing.T) {
	out := CallbackErrorRedirect(base, errors.New(strings.Repeat("a", 300)))
	want := base + "/error?error=" + strings.Repeat("a", callbackErrorMaxLen)
	if out.RedirectURL != want {
		t.Fatalf("redirect de %d chars, want %d", len(out.RedirectURL), len(want))
	}
}
