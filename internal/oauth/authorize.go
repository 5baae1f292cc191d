// Package oauth construye la authorization URL para providers de
// authorization delegada. No implementa el client OAuth completo (sin PKCE
// ni JWKS): solo el redirect inicial con state firmado.
package oauth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/signon/internal/signin"
)

// Builder implementa signin.AuthorizationURLBuilder.
// El parámetro state viaja como JWT HS256 de vida corta para que el
// callback pueda validarlo sin estado server-side.
type Builder struct {
	signingKey []byte
	stateTTL   time.Duration
	now        func() time.Time
}

func NewBuilder(signingKey []byte, stateTTL time.Duration) *Builder {
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	return &Builder{
		signingKey: signingKey,
		stateTTL:   stateTTL,
		now:        time.Now,
	}
}

// AuthorizationURL arma el redirect hacia el endpoint de autorización del
// provider. Un solo intento por request: cualquier fallo se reporta y el
// caller decide reintentar.
func (b *Builder) AuthorizationURL(_ context.Context, opts *signin.Options, query url.Values) (signin.Outcome, error) {
	p := opts.Provider

	if p.AuthorizationEndpoint == "" || p.ClientID == "" {
		return signin.Outcome{}, fmt.Errorf("provider %s: missing authorization endpoint or client_id", p.ID)
	}

	u, err := url.Parse(p.AuthorizationEndpoint)
	if err != nil {
		return signin.Outcome{}, fmt.Errorf("provider %s: parse authorization endpoint: %w", p.ID, err)
	}

	state, err := b.signState(p.ID, query.Get("callbackUrl"))
	if err != nil {
		return signin.Outcome{}, fmt.Errorf("provider %s: sign state: %w", p.ID, err)
	}

	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", opts.BaseURL+"/callback/"+p.ID)
	if len(p.Scopes) > 0 {
		q.Set("scope", strings.Join(p.Scopes, " "))
	}
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return signin.RedirectTo(u.String()), nil
}

type stateClaims struct {
	Provider    string `json:"pvd"`
	CallbackURL string `json:"cb,omitempty"`
	jwtv5.RegisteredClaims
}

func (b *Builder) signState(providerID, callbackURL string) (string, error) {
	now := b.now()
	claims := stateClaims{
		Provider:    providerID,
		CallbackURL: callbackURL,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(b.stateTTL)),
		},
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return tok.SignedString(b.signingKey)
}

// VerifyState valida el state devuelto por el provider y retorna el
// provider ID y el callbackUrl original.
func (b *Builder) VerifyState(state string) (providerID, callbackURL string, err error) {
	var claims stateClaims
	_, err = jwtv5.ParseWithClaims(state, &claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.signingKey, nil
	}, jwtv5.WithTimeFunc(b.now))
	if err != nil {
		return "", "", fmt.Errorf("verify state: %w", err)
	}
	return claims.Provider, claims.CallbackURL, nil
}
