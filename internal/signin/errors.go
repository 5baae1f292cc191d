package signin

import (
	"net/url"
	"strings"
)

// ErrorKind enumera los errores que terminan en la página de error.
// Los valores son contractuales: clientes existentes matchean el query
// param `error` contra estos strings exactos.
type ErrorKind string

const (
	// ErrorOAuthSignin: falló la construcción de la authorization URL.
	ErrorOAuthSignin ErrorKind = "OAuthSignin"

	// ErrorEmailSignin: email ausente/inválido o falló la emisión del challenge.
	ErrorEmailSignin ErrorKind = "EmailSignin"

	// ErrorAccessDenied: el access-control callback rechazó el sign-in.
	ErrorAccessDenied ErrorKind = "AccessDenied"

	// ErrorVerification: el verification token no existe o expiró.
	ErrorVerification ErrorKind = "Verification"
)

// Redirect construye el outcome de redirect a la página de error.
func (k ErrorKind) Redirect(base string) Outcome {
	return RedirectTo(base + "/error?error=" + string(k))
}

// callbackErrorMaxLen acota el mensaje reflejado en el redirect.
const callbackErrorMaxLen = 100

// CallbackErrorRedirect mapea un error lanzado por el access-control
// callback a un redirect con el mensaje saneado en el query param.
// El mensaje se filtra contra un allowlist de caracteres antes de
// URL-encodearlo: nunca se refleja contenido arbitrario del error.
func CallbackErrorRedirect(base string, err error) Outcome {
	msg := sanitizeCallbackError(err.Error())
	if msg == "" {
		return ErrorAccessDenied.Redirect(base)
	}
	q := url.Values{"error": {msg}}
	return RedirectTo(base + "/error?" + q.Encode())
}

// sanitizeCallbackError conserva solo [A-Za-z0-9 ._-], colapsa espacios
// y trunca a callbackErrorMaxLen runas.
func sanitizeCallbackError(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		ok := r >= 'a' && r <= 'z' ||
			r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' ||
			r == '.' || r == '_' || r == '-'
		switch {
		case ok:
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// caracteres fuera del allowlist se descartan
		}
		if b.Len() >= callbackErrorMaxLen {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
