package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/metrics"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	tokens "github.com/dropDatabas3/signon/internal/security/token"
)

const sessionTokenBytes = 32

// Verifier consume el verification token en el callback del magic link:
// valida single-use y expiración, materializa el usuario provisional si es
// su primer sign-in, vincula la cuenta email y abre la sesión.
type Verifier struct {
	Users    repository.UserRepository
	Accounts repository.AccountRepository
	Sessions repository.SessionRepository
	Tokens   repository.VerificationTokenRepository

	// SessionTTL de las sesiones creadas. Default 30 días.
	SessionTTL time.Duration

	log *zap.Logger
}

func NewVerifier(conn interface {
	Users() repository.UserRepository
	Accounts() repository.AccountRepository
	Sessions() repository.SessionRepository
	VerificationTokens() repository.VerificationTokenRepository
}, sessionTTL time.Duration) *Verifier {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &Verifier{
		Users:      conn.Users(),
		Accounts:   conn.Accounts(),
		Sessions:   conn.Sessions(),
		Tokens:     conn.VerificationTokens(),
		SessionTTL: sessionTTL,
		log:        logger.Named("verify"),
	}
}

// Consume valida y quema el token, y retorna la sesión creada.
// Retorna repository.ErrNotFound o repository.ErrTokenExpired cuando el
// challenge no es válido; el handler los mapea a la página de error.
func (v *Verifier) Consume(ctx context.Context, providerID, identifier, secret string) (*repository.Session, error) {
	_, err := v.Tokens.Consume(ctx, identifier, tokens.SHA256Hex(secret))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			metrics.TokensConsumed.WithLabelValues("not_found").Inc()
		case errors.Is(err, repository.ErrTokenExpired):
			metrics.TokensConsumed.WithLabelValues("expired").Inc()
		default:
			metrics.TokensConsumed.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	now := time.Now()

	user, err := v.Users.GetByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		// Primer sign-in: la identidad provisional se vuelve durable recién acá.
		user, err = v.Users.Create(ctx, repository.CreateUserInput{
			Email:         identifier,
			EmailVerified: &now,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		v.log.Info("user_created",
			zap.String("provider_id", providerID),
			zap.String("user_id", user.ID))
	} else if user.EmailVerified == nil {
		if err := v.Users.Update(ctx, user.ID, repository.UpdateUserInput{EmailVerified: &now}); err != nil {
			return nil, fmt.Errorf("mark email verified: %w", err)
		}
	}

	account, err := v.Accounts.GetByProvider(ctx, providerID, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if account == nil {
		if _, err := v.Accounts.Link(ctx, repository.LinkAccountInput{
			UserID:            user.ID,
			Type:              repository.AccountTypeEmail,
			Provider:          providerID,
			ProviderAccountID: identifier,
		}); err != nil && !repository.IsConflict(err) {
			// ErrConflict: otro request concurrente ya vinculó la cuenta.
			return nil, fmt.Errorf("link account: %w", err)
		}
	}

	st, err := tokens.GenerateOpaqueToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	session, err := v.Sessions.Create(ctx, repository.CreateSessionInput{
		UserID:       user.ID,
		SessionToken: st,
		ExpiresAt:    now.Add(v.SessionTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.TokensConsumed.WithLabelValues("ok").Inc()
	return session, nil
}
