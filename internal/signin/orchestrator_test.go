package signin

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/identifier"
	"github.com/dropDatabas3/signon/internal/provider"
)

type fakeUsers struct {
	repository.UserRepository

	byEmail map[string]*repository.User
	err     error
	calls   int
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

type fakeBuilder struct {
	out   Outcome
	err   error
	calls int
}

func (f *fakeBuilder) AuthorizationURL(_ context.Context, _ *Options, _ url.Values) (Outcome, error) {
	f.calls++
	return f.out, f.err
}

type fakeIssuer struct {
	redirect  string
	err       error
	calls     int
	lastEmail string
}

func (f *fakeIssuer) Issue(_ context.Context, email string, _ *Options) (string, error) {
	f.calls++
	f.lastEmail = email
	if f.err != nil {
		return "", f.err
	}
	return f.redirect, nil
}

func emailProvider() provider.Provider {
	return provider.Provider{ID: "email", Name: "Email", Kind: provider.KindEmail}
}

func newOpts(p provider.Provider, users *fakeUsers, cbs Callbacks) *Options {
	return &Options{
		BaseURL:   base,
		Provider:  p,
		Users:     users,
		Callbacks: cbs,
	}
}

func TestHandleSignInProviderSinTipo(t *testing.T) {
	orch := New(&fakeBuilder{}, &fakeIssuer{})
	opts := newOpts(provider.Provider{ID: "roto", Name: "Roto"}, &fakeUsers{}, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, nil, Body{})
	if out.IsRedirect() {
		t.Fatalf("misconfiguración debía ser payload, fue redirect a %q", out.RedirectURL)
	}
	if out.Status != 500 {
		t.Fatalf("status %d, want 500", out.Status)
	}
	if out.Message == "" {
		t.Fatal("message vacío")
	}
}

func TestHandleSignInOAuthRetornaOutcomeDelBuilder(t *testing.T) {
	b := &fakeBuilder{out: RedirectTo("https://idp.example.com/authorize?client_id=abc")}
	orch := New(b, &fakeIssuer{})
	opts := newOpts(provider.Provider{ID: "idp", Name: "IdP", Kind: provider.KindOAuth}, &fakeUsers{}, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, url.Values{}, Body{})
	if out != b.out {
		t.Fatalf("outcome %+v, want %+v", out, b.out)
	}
	if b.calls != 1 {
		t.Fatalf("builder llamado %d veces", b.calls)
	}
}

func TestHandleSignInOAuthError(t *testing.T) {
	b := &fakeBuilder{err: errors.New("endpoint caído")}
	orch := New(b, &fakeIssuer{})
	opts := newOpts(provider.Provider{ID: "idp", Name: "IdP", Kind: provider.KindOAuth}, &fakeUsers{}, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, url.Values{}, Body{})
	if out.RedirectURL != base+"/error?error=OAuthSignin" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
}

func TestHandleSignInKindDesconocidoVaASignin(t *testing.T) {
	orch := New(&fakeBuilder{}, &fakeIssuer{})
	opts := newOpts(provider.Provider{ID: "x", Name: "X", Kind: provider.Kind(99)}, &fakeUsers{}, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, nil, Body{})
	if out.RedirectURL != base+"/signin" {
		t.Fatalf("redirect %q, want %q", out.RedirectURL, base+"/signin")
	}
}

func TestEmailSinEmailNoTocaElAdapter(t *testing.T) {
	users := &fakeUsers{}
	issuer := &fakeIssuer{}
	orch := New(&fakeBuilder{}, issuer)
	opts := newOpts(emailProvider(), users, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, nil, Body{})
	if out.RedirectURL != base+"/error?error=EmailSignin" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if users.calls != 0 {
		t.Fatalf("lookup llamado %d veces antes de validar el email", users.calls)
	}
	if issuer.calls != 0 {
		t.Fatalf("issuer llamado %d veces", issuer.calls)
	}
}

func TestEmailMalformadoRedirige(t *testing.T) {
	users := &fakeUsers{}
	orch := New(&fakeBuilder{}, &fakeIssuer{})
	opts := newOpts(emailProvider(), users, Callbacks{})

	out := orch.HandleSignIn(context.Background(), opts, nil, Body{Email: "sin-arroba"})
	if out.RedirectURL != base+"/error?error=EmailSignin" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if users.calls != 0 {
		t.Fatalf("lookup llamado con identificador inválido")
	}
}

func TestEmailUsuarioExistenteSeResuelvePorEmailNormalizado(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*repository.User{
		"u@x.com": {ID: "user-1", Email: "u@x.com"},
	}}
	issuer := &fakeIssuer{redirect: base + "/verify-request?provider=email&type=email"}

	var got AccessControlInput
	cbs := Callbacks{SignIn: func(_ context.Context, in AccessControlInput) (Decision, error) {
		got = in
		return Decision{Allow: true}, nil
	}}

	orch := New(&fakeBuilder{}, issuer)
	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), users, cbs), nil, Body{Email: "U@X.com"})

	if out.RedirectURL != issuer.redirect {
		t.Fatalf("redirect %q, want %q", out.RedirectURL, issuer.redirect)
	}
	if got.User.Provisional {
		t.Fatal("usuario persistido marcado como provisional")
	}
	if got.User.User.ID != "user-1" {
		t.Fatalf("user ID %q, want user-1", got.User.User.ID)
	}
	if got.Account.UserID != "u@x.com" || got.Account.ProviderAccountID != "u@x.com" {
		t.Fatalf("account sintetizada %+v", got.Account)
	}
	if got.Account.Type != repository.AccountTypeEmail || got.Account.Provider != "email" {
		t.Fatalf("account sintetizada %+v", got.Account)
	}
	if !got.VerificationRequest {
		t.Fatal("VerificationRequest debía ser true en el flujo email")
	}
	if issuer.lastEmail != "u@x.com" {
		t.Fatalf("issuer recibió %q, want email normalizado", issuer.lastEmail)
	}
}

func TestEmailUsuarioNuevoEsProvisional(t *testing.T) {
	users := &fakeUsers{}
	var got AccessControlInput
	cbs := Callbacks{SignIn: func(_ context.Context, in AccessControlInput) (Decision, error) {
		got = in
		return Decision{Allow: true}, nil
	}}

	orch := New(&fakeBuilder{}, &fakeIssuer{redirect: "ok"})
	orch.HandleSignIn(context.Background(), newOpts(emailProvider(), users, cbs), nil, Body{Email: "nuevo@x.com"})

	if !got.User.Provisional {
		t.Fatal("usuario inexistente debía ser provisional")
	}
	if got.User.User.ID != "nuevo@x.com" || got.User.User.Email != "nuevo@x.com" {
		t.Fatalf("identidad provisional %+v", got.User.User)
	}
}

func TestEmailLookupFallaRedirige(t *testing.T) {
	users := &fakeUsers{err: errors.New("conexión perdida")}
	issuer := &fakeIssuer{}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), users, Callbacks{}), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != base+"/error?error=EmailSignin" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if issuer.calls != 0 {
		t.Fatal("issuer no debía invocarse tras fallo de lookup")
	}
}

func TestCallbackRedirectCustomGanaYCortaElFlujo(t *testing.T) {
	issuer := &fakeIssuer{}
	cbs := Callbacks{SignIn: func(_ context.Context, _ AccessControlInput) (Decision, error) {
		return Decision{RedirectURL: "https://app.example.com/custom"}, nil
	}}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), &fakeUsers{}, cbs), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != "https://app.example.com/custom" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if issuer.calls != 0 {
		t.Fatal("el redirect custom no debía emitir challenge")
	}
}

func TestCallbackDeniegaSinEmitirChallenge(t *testing.T) {
	issuer := &fakeIssuer{}
	cbs := Callbacks{SignIn: func(_ context.Context, _ AccessControlInput) (Decision, error) {
		return Decision{Allow: false}, nil
	}}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), &fakeUsers{}, cbs), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != base+"/error?error=AccessDenied" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if issuer.calls != 0 {
		t.Fatal("issuer invocado pese a la denegación")
	}
}

func TestCallbackErrorRedirigeSaneado(t *testing.T) {
	issuer := &fakeIssuer{}
	cbs := Callbacks{SignIn: func(_ context.Context, _ AccessControlInput) (Decision, error) {
		return Decision{}, errors.New("user banned")
	}}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), &fakeUsers{}, cbs), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != base+"/error?error=user+banned" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if issuer.calls != 0 {
		t.Fatal("issuer invocado pese al error del callback")
	}
}

func TestIssuerFallaRedirige(t *testing.T) {
	issuer := &fakeIssuer{err: errors.New("smtp timeout")}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), &fakeUsers{}, Callbacks{}), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != base+"/error?error=EmailSignin" {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
}

func TestSinCallbackSeEmiteElChallenge(t *testing.T) {
	issuer := &fakeIssuer{redirect: base + "/verify-request?provider=email&type=email"}
	orch := New(&fakeBuilder{}, issuer)

	out := orch.HandleSignIn(context.Background(), newOpts(emailProvider(), &fakeUsers{}, Callbacks{}), nil, Body{Email: "u@x.com"})
	if out.RedirectURL != issuer.redirect {
		t.Fatalf("redirect %q", out.RedirectURL)
	}
	if issuer.calls != 1 {
		t.Fatalf("issuer llamado %d veces", issuer.calls)
	}
}

func TestNormalizerOverride(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*repository.User{
		"fijo@x.com": {ID: "user-9", Email: "fijo@x.com"},
	}}
	issuer := &fakeIssuer{redirect: "ok"}
	orch := New(&fakeBuilder{}, issuer)

	opts := newOpts(emailProvider(), users, Callbacks{})
	opts.Normalizer = identifier.NormalizerFunc(func(string) (string, error) {
		return "fijo@x.com", nil
	})

	orch.HandleSignIn(context.Background(), opts, nil, Body{Email: "cualquiera@y.com"})
	if issuer.lastEmail != "fijo@x.com" {
		t.Fatalf("issuer recibió %q, want override", issuer.lastEmail)
	}
}
