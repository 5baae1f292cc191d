package signin

import (
	"context"
	"net/url"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/identifier"
	"github.com/dropDatabas3/signon/internal/provider"
)

// Body es el cuerpo del sign-in request. El flujo passwordless requiere
// Email no vacío.
type Body struct {
	Email string
}

// ResolvedUser discrimina entre un usuario persistido y una identidad
// provisional (placeholder no guardado) sintetizada para que el callback y
// el challenge issuer operen uniformemente sobre usuarios nuevos y
// existentes. Código downstream no debe tratar una identidad provisional
// como durable.
type ResolvedUser struct {
	User        repository.User
	Provisional bool
}

// AccessControlInput es el contexto que recibe el access-control callback.
type AccessControlInput struct {
	User    ResolvedUser
	Account repository.Account

	// VerificationRequest es true cuando el sign-in está por emitir un
	// challenge de verificación (flujo email), antes de que el usuario
	// pruebe posesión de la casilla.
	VerificationRequest bool
}

// Decision es la respuesta del access-control callback.
// RedirectURL no vacío gana sobre Allow: el sign-in termina en ese destino.
type Decision struct {
	Allow       bool
	RedirectURL string
}

// AccessControl es la policy provista por el integrador, invocada antes de
// completar el sign-in. Puede permitir, denegar o redirigir; un error se
// mapea a un redirect con mensaje saneado.
type AccessControl func(ctx context.Context, in AccessControlInput) (Decision, error)

// Callbacks agrupa las policies configurables por el integrador.
type Callbacks struct {
	// SignIn nil equivale a permitir siempre.
	SignIn AccessControl
}

// Options es la configuración request-scoped del orquestador.
type Options struct {
	// BaseURL es la base de las páginas propias (/error, /signin,
	// /verify-request), sin slash final.
	BaseURL string

	// Provider es el provider seleccionado por el request.
	Provider provider.Provider

	// Users es el adapter de persistencia (solo lectura en este core).
	Users repository.UserRepository

	Callbacks Callbacks

	// Normalizer nil usa identifier.Default().
	Normalizer identifier.Normalizer
}

func (o *Options) normalizer() identifier.Normalizer {
	if o.Normalizer != nil {
		return o.Normalizer
	}
	return identifier.Default()
}

// AuthorizationURLBuilder construye el redirect hacia el provider de
// authorization delegada. El orquestador depende solo de su contrato
// resultado/error; la construcción concreta vive en internal/oauth.
type AuthorizationURLBuilder interface {
	AuthorizationURL(ctx context.Context, opts *Options, query url.Values) (Outcome, error)
}

// ChallengeIssuer crea y despacha el verification token del flujo
// passwordless. Retorna la URL de redirect post-emisión.
type ChallengeIssuer interface {
	Issue(ctx context.Context, email string, opts *Options) (string, error)
}
