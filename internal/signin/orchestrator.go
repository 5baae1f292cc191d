// Package signin implementa el orquestador de sign-in: rutea por tipo de
// provider, secuencia normalización → lookup → síntesis de cuenta → policy →
// acción downstream, y mapea todo fallo a un outcome seguro.
package signin

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	"github.com/dropDatabas3/signon/internal/provider"
)

// Orchestrator es el núcleo del sign-in. No muta storage directamente:
// la única llamada al adapter es el lookup por email; toda escritura queda
// en manos de los colaboradores.
type Orchestrator struct {
	authorize AuthorizationURLBuilder
	email     ChallengeIssuer
	log       *zap.Logger
}

// New construye un Orchestrator con sus dos colaboradores downstream.
func New(authorize AuthorizationURLBuilder, email ChallengeIssuer) *Orchestrator {
	return &Orchestrator{
		authorize: authorize,
		email:     email,
		log:       logger.Named("signin"),
	}
}

// HandleSignIn procesa un sign-in request. Nunca retorna error: todo fallo
// de colaborador termina en redirect, y solo la misconfiguración del
// provider produce un payload 500.
func (o *Orchestrator) HandleSignIn(ctx context.Context, opts *Options, query url.Values, body Body) Outcome {
	p := opts.Provider

	switch p.Kind {
	case provider.KindUnknown:
		// Misconfiguración fatal: no se redirige al usuario.
		return ServerError(fmt.Sprintf("type not specified for provider %s", p.Name))

	case provider.KindOAuth:
		out, err := o.authorize.AuthorizationURL(ctx, opts, query)
		if err != nil {
			o.log.Error("signin_oauth_error",
				zap.String("provider_id", p.ID),
				zap.Error(err))
			return ErrorOAuthSignin.Redirect(opts.BaseURL)
		}
		// El builder puede retornar el redirect al provider o una
		// respuesta directa; se devuelve tal cual.
		return out

	case provider.KindEmail:
		return o.emailSignIn(ctx, opts, body)

	default:
		// Kind fuera de las ramas conocidas: fallback a la página
		// genérica de sign-in.
		return RedirectTo(opts.BaseURL + "/signin")
	}
}

func (o *Orchestrator) emailSignIn(ctx context.Context, opts *Options, body Body) Outcome {
	p := opts.Provider

	if body.Email == "" {
		return ErrorEmailSignin.Redirect(opts.BaseURL)
	}

	email, err := opts.normalizer().Normalize(body.Email)
	if err != nil {
		o.log.Error("signin_email_error",
			zap.String("provider_id", p.ID),
			zap.Error(err))
		return ErrorEmailSignin.Redirect(opts.BaseURL)
	}

	existing, err := opts.Users.GetByEmail(ctx, email)
	if err != nil {
		o.log.Error("signin_email_error",
			zap.String("provider_id", p.ID),
			zap.Error(fmt.Errorf("adapter lookup: %w", err)))
		return ErrorEmailSignin.Redirect(opts.BaseURL)
	}

	// Usuario existente, o identidad provisional con email = id =
	// email normalizado (aún sin persistir).
	user := ResolvedUser{Provisional: existing == nil}
	if existing != nil {
		user.User = *existing
	} else {
		user.User = repository.User{ID: email, Email: email}
	}

	// La cuenta sintetizada usa el email normalizado como userId y
	// providerAccountId; no se persiste acá.
	account := repository.Account{
		UserID:            email,
		Type:              repository.AccountTypeEmail,
		Provider:          p.ID,
		ProviderAccountID: email,
	}

	if cb := opts.Callbacks.SignIn; cb != nil {
		decision, err := cb(ctx, AccessControlInput{
			User:                user,
			Account:             account,
			VerificationRequest: true,
		})
		switch {
		case err != nil:
			return CallbackErrorRedirect(opts.BaseURL, err)
		case decision.RedirectURL != "":
			return RedirectTo(decision.RedirectURL)
		case !decision.Allow:
			return ErrorAccessDenied.Redirect(opts.BaseURL)
		}
	}

	redirect, err := o.email.Issue(ctx, email, opts)
	if err != nil {
		o.log.Error("signin_email_error",
			zap.String("provider_id", p.ID),
			zap.Error(err))
		return ErrorEmailSignin.Redirect(opts.BaseURL)
	}
	return RedirectTo(redirect)
}
