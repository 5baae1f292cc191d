// Package metrics define las métricas Prometheus del servicio. Viven en un
// package propio para evitar ciclos de import entre signin y HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignInAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signon_signin_attempts_total",
		Help: "Sign-in requests procesados, por provider, tipo de flujo y outcome",
	}, []string{"provider", "kind", "outcome"})

	ChallengesIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signon_email_challenges_issued_total",
		Help: "Magic links emitidos, por provider",
	}, []string{"provider"})

	ChallengeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signon_email_challenge_failures_total",
		Help: "Fallos al emitir magic links, por provider y etapa",
	}, []string{"provider", "stage"})

	TokensConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signon_verification_tokens_consumed_total",
		Help: "Verification tokens consumidos en el callback, por resultado",
	}, []string{"result"})
)

// Register registra las métricas en el registry dado (default si es nil).
// Tolera AlreadyRegisteredError para permitir Init repetido en tests.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		SignInAttempts,
		ChallengesIssued,
		ChallengeFailures,
		TokensConsumed,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
