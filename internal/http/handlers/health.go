package handlers

import (
	"encoding/json"
	"net/http"

	store "github.com/dropDatabas3/signon/internal/store"
)

// Healthz reporta el estado del servicio y su conexión al store.
func Healthz(conn store.AdapterConnection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := conn.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"store":  conn.Name(),
		})
	}
}
