package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/email"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	"github.com/dropDatabas3/signon/internal/provider"
	"github.com/dropDatabas3/signon/internal/signin"
)

// SessionCookieName es la cookie que transporta el session token.
const SessionCookieName = "signon_session"

// CallbackHandler expone GET /v1/auth/callback/{provider} para el flujo
// email: canjea el verification token del magic link y abre sesión.
type CallbackHandler struct {
	BaseURL   string
	Providers map[string]provider.Provider
	Verifier  *email.Verifier

	// CookieSecure marca la session cookie como Secure (prod).
	CookieSecure bool

	log *zap.Logger
}

func NewCallbackHandler(baseURL string, providers map[string]provider.Provider, verifier *email.Verifier, cookieSecure bool) *CallbackHandler {
	return &CallbackHandler{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Providers:    providers,
		Verifier:     verifier,
		CookieSecure: cookieSecure,
		log:          logger.Named("http.callback"),
	}
}

func (h *CallbackHandler) Register(r chi.Router) {
	r.Get("/v1/auth/callback/{provider}", h.callback)
}

func (h *CallbackHandler) callback(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider")
	p, ok := h.Providers[providerID]
	if !ok || p.Kind != provider.KindEmail {
		writeErr(w, "unknown_provider", "provider no configurado para callback email", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	identifier := q.Get("email")
	secret := q.Get("token")
	if identifier == "" || secret == "" {
		redirect(w, r, signin.ErrorVerification.Redirect(h.BaseURL))
		return
	}

	session, err := h.Verifier.Consume(r.Context(), p.ID, identifier, secret)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrTokenExpired) {
			redirect(w, r, signin.ErrorVerification.Redirect(h.BaseURL))
			return
		}
		h.log.Error("callback_email_error",
			zap.String("provider_id", p.ID),
			zap.Error(err))
		redirect(w, r, signin.ErrorEmailSignin.Redirect(h.BaseURL))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.SessionToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.BaseURL, http.StatusFound)
}

func redirect(w http.ResponseWriter, r *http.Request, out signin.Outcome) {
	http.Redirect(w, r, out.RedirectURL, http.StatusFound)
}
