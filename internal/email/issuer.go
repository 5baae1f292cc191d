package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/metrics"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	"github.com/dropDatabas3/signon/internal/rate"
	tokens "github.com/dropDatabas3/signon/internal/security/token"
	"github.com/dropDatabas3/signon/internal/signin"
)

const tokenBytes = 32

// Issuer implementa signin.ChallengeIssuer: crea el verification token,
// persiste su hash y despacha el magic link. Re-emitir para el mismo email
// es seguro: reemplaza el token anterior.
type Issuer struct {
	Sender Sender
	Tokens repository.VerificationTokenRepository
	Tmpl   *Templates

	// TTL del verification token. Default 24h.
	TTL time.Duration

	// Limiter nil desactiva rate limiting.
	Limiter rate.Limiter

	log *zap.Logger
}

func NewIssuer(sender Sender, tokenRepo repository.VerificationTokenRepository, tmpl *Templates, ttl time.Duration, limiter rate.Limiter) *Issuer {
	if tmpl == nil {
		tmpl = DefaultTemplates()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		Sender:  sender,
		Tokens:  tokenRepo,
		Tmpl:    tmpl,
		TTL:     ttl,
		Limiter: limiter,
		log:     logger.Named("email"),
	}
}

// Issue crea y despacha el challenge para el email (ya normalizado).
// Retorna la URL de la página verify-request.
func (i *Issuer) Issue(ctx context.Context, email string, opts *signin.Options) (string, error) {
	p := opts.Provider

	if i.Limiter != nil {
		res, err := i.Limiter.Allow(ctx, "email_signin:"+email)
		if err != nil {
			metrics.ChallengeFailures.WithLabelValues(p.ID, "rate").Inc()
			return "", fmt.Errorf("rate limiter: %w", err)
		}
		if !res.Allowed {
			metrics.ChallengeFailures.WithLabelValues(p.ID, "rate").Inc()
			return "", fmt.Errorf("challenge rate limited for identifier (retry in %s)", res.RetryAfter)
		}
	}

	secret, err := tokens.GenerateOpaqueToken(tokenBytes)
	if err != nil {
		metrics.ChallengeFailures.WithLabelValues(p.ID, "token").Inc()
		return "", fmt.Errorf("generate token: %w", err)
	}

	if _, err := i.Tokens.Create(ctx, repository.CreateVerificationTokenInput{
		Identifier: email,
		TokenHash:  tokens.SHA256Hex(secret),
		ExpiresAt:  time.Now().Add(i.TTL),
	}); err != nil {
		metrics.ChallengeFailures.WithLabelValues(p.ID, "store").Inc()
		return "", fmt.Errorf("store verification token: %w", err)
	}

	cb := url.Values{"email": {email}, "token": {secret}}
	link := opts.BaseURL + "/callback/" + p.ID + "?" + cb.Encode()

	host := opts.BaseURL
	if u, err := url.Parse(opts.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	htmlBody, textBody, err := i.Tmpl.Render(SignInVars{
		Email: email,
		Host:  host,
		Link:  link,
		TTL:   i.TTL.String(),
	})
	if err != nil {
		metrics.ChallengeFailures.WithLabelValues(p.ID, "template").Inc()
		return "", fmt.Errorf("render template: %w", err)
	}

	if err := i.Sender.Send(email, "Iniciar sesión en "+host, htmlBody, textBody); err != nil {
		metrics.ChallengeFailures.WithLabelValues(p.ID, "send").Inc()
		return "", err
	}

	metrics.ChallengesIssued.WithLabelValues(p.ID).Inc()
	i.log.Info("challenge_issued",
		zap.String("provider_id", p.ID),
		zap.Duration("ttl", i.TTL))

	rq := url.Values{"provider": {p.ID}, "type": {"email"}}
	return opts.BaseURL + "/verify-request?" + rq.Encode(), nil
}
