package email

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	texttpl "text/template"
)

// Templates agrupa los templates del magic link (HTML + texto plano).
type Templates struct {
	SignInHTML *template.Template
	SignInTXT  *texttpl.Template
}

// SignInVars son las variables disponibles en los templates.
type SignInVars struct {
	Email string
	Host  string
	Link  string
	TTL   string
}

const defaultSignInHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <p>Hola,</p>
    <p>Usá este enlace para iniciar sesión en <strong>{{.Host}}</strong>:</p>
    <p><a href="{{.Link}}">Iniciar sesión</a></p>
    <p>El enlace expira en {{.TTL}} y solo puede usarse una vez.</p>
    <p>Si no pediste este email, podés ignorarlo.</p>
  </body>
</html>`

const defaultSignInTXT = `Hola,

Usá este enlace para iniciar sesión en {{.Host}}:

{{.Link}}

El enlace expira en {{.TTL}} y solo puede usarse una vez.
Si no pediste este email, podés ignorarlo.`

// DefaultTemplates retorna los templates embebidos.
func DefaultTemplates() *Templates {
	return &Templates{
		SignInHTML: template.Must(template.New("signin_html").Parse(defaultSignInHTML)),
		SignInTXT:  texttpl.Must(texttpl.New("signin_txt").Parse(defaultSignInTXT)),
	}
}

// LoadTemplates carga templates custom desde un directorio
// (signin.html / signin.txt).
func LoadTemplates(dir string) (*Templates, error) {
	read := func(name string) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		return string(b), err
	}
	h, err := read("signin.html")
	if err != nil {
		return nil, err
	}
	t, err := read("signin.txt")
	if err != nil {
		return nil, err
	}
	hT, err := template.New("signin_html").Parse(h)
	if err != nil {
		return nil, err
	}
	tT, err := texttpl.New("signin_txt").Parse(t)
	if err != nil {
		return nil, err
	}
	return &Templates{SignInHTML: hT, SignInTXT: tT}, nil
}

// Render ejecuta ambos templates con las variables dadas.
func (t *Templates) Render(vars SignInVars) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := t.SignInHTML.Execute(&hb, vars); err != nil {
		return "", "", err
	}
	if err := t.SignInTXT.Execute(&tb, vars); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
