package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/signon/internal/http/handlers"
	store "github.com/dropDatabas3/signon/internal/store"
)

// NewRouter arma el router con los handlers de sign-in y callback.
func NewRouter(conn store.AdapterConnection, signIn *handlers.SignInHandler, callback *handlers.CallbackHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(middleware.Recoverer)

	signIn.Register(r)
	callback.Register(r)

	r.Get("/healthz", handlers.Healthz(conn))
	r.Handle("/metrics", promhttp.Handler())

	return r
}
