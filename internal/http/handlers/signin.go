// Package handlers ata el transporte HTTP al orquestador de sign-in.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/signon/internal/domain/repository"
	"github.com/dropDatabas3/signon/internal/identifier"
	"github.com/dropDatabas3/signon/internal/metrics"
	"github.com/dropDatabas3/signon/internal/observability/logger"
	"github.com/dropDatabas3/signon/internal/provider"
	"github.com/dropDatabas3/signon/internal/signin"
)

// SignInHandler expone POST /v1/auth/signin/{provider}.
type SignInHandler struct {
	BaseURL      string
	Providers    map[string]provider.Provider
	Orchestrator *signin.Orchestrator
	Users        repository.UserRepository
	Callbacks    signin.Callbacks

	// Normalizer nil usa el default.
	Normalizer identifier.Normalizer

	log *zap.Logger
}

func NewSignInHandler(baseURL string, providers map[string]provider.Provider, orch *signin.Orchestrator, users repository.UserRepository, cbs signin.Callbacks) *SignInHandler {
	return &SignInHandler{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Providers:    providers,
		Orchestrator: orch,
		Users:        users,
		Callbacks:    cbs,
		log:          logger.Named("http.signin"),
	}
}

func (h *SignInHandler) Register(r chi.Router) {
	r.Post("/v1/auth/signin/{provider}", h.signIn)
}

type signInBody struct {
	Email string `json:"email"`
}

func (h *SignInHandler) signIn(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider")
	p, ok := h.Providers[providerID]
	if !ok {
		writeErr(w, "unknown_provider", "provider no configurado", http.StatusNotFound)
		return
	}

	body, err := readSignInBody(r)
	if err != nil {
		writeErr(w, "invalid_body", "body malformado", http.StatusBadRequest)
		return
	}

	opts := &signin.Options{
		BaseURL:    h.BaseURL,
		Provider:   p,
		Users:      h.Users,
		Callbacks:  h.Callbacks,
		Normalizer: h.Normalizer,
	}

	out := h.Orchestrator.HandleSignIn(r.Context(), opts, r.URL.Query(), body)

	outcome := "redirect"
	if !out.IsRedirect() {
		outcome = "server_error"
	}
	metrics.SignInAttempts.WithLabelValues(p.ID, p.Kind.String(), outcome).Inc()

	if out.IsRedirect() {
		http.Redirect(w, r, out.RedirectURL, http.StatusFound)
		return
	}

	h.log.Error("signin_config_error",
		zap.String("provider_id", p.ID),
		zap.String("request_id", w.Header().Get("X-Request-ID")),
		zap.String("message", out.Message))
	writeErr(w, "configuration_error", out.Message, out.Status)
}

// readSignInBody acepta JSON o form-encoded (los sign-in forms postean
// application/x-www-form-urlencoded).
func readSignInBody(r *http.Request) (signin.Body, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var in signInBody
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return signin.Body{}, err
		}
		return signin.Body{Email: in.Email}, nil
	}
	if err := r.ParseForm(); err != nil {
		return signin.Body{}, err
	}
	return signin.Body{Email: r.PostFormValue("email")}, nil
}
