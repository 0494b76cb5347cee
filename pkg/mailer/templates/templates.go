package templates

import (
	"bytes"
	"text/template"
)

// Plain-text email bodies. Kept as text templates so the worker and the
// synchronous reset path render identically.

var resetPassword = template.Must(template.New("reset_password").Parse(
	`You are receiving this email because you (or someone else) has requested the reset of a password.

Please make a PUT request to:

{{.ResetURL}}

This link expires in {{.ExpiresIn}}. If you did not request a reset, you can ignore this email.`))

var welcome = template.Must(template.New("welcome").Parse(
	`Hi {{.Name}},

Welcome to {{.AppName}}! Your account has been created with the role "{{.Role}}".

Happy coding.`))

// ResetPasswordBody renders the password-reset email text.
func ResetPasswordBody(resetURL, expiresIn string) (string, error) {
	return render(resetPassword, map[string]string{"ResetURL": resetURL, "ExpiresIn": expiresIn})
}

// WelcomeBody renders the post-registration welcome email text.
func WelcomeBody(name, appName, role string) (string, error) {
	return render(welcome, map[string]string{"Name": name, "AppName": appName, "Role": role})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
