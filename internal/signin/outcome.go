package signin

import "net/http"

// Outcome es el resultado de un sign-in request: exactamente uno de
// redirect (URL destino) o error estructurado (status + mensaje).
type Outcome struct {
	RedirectURL string
	Status      int
	Message     string
}

// RedirectTo construye un outcome de redirect.
func RedirectTo(url string) Outcome {
	return Outcome{RedirectURL: url}
}

// ServerError construye un outcome de error de configuración (clase 500).
// Nunca se usa para fallos recuperables; esos terminan en redirect.
func ServerError(message string) Outcome {
	return Outcome{Status: http.StatusInternalServerError, Message: message}
}

// IsRedirect indica si el outcome es un redirect.
func (o Outcome) IsRedirect() bool { return o.RedirectURL != "" }
