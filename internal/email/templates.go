package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/atelierhq/workshop-studio/internal/service"
)

var (
	enrollmentTmpl = template.Must(template.New("enrollment").Parse(`
<h2>You're in, {{.CustomerName}}!</h2>
<p>Your spot in <strong>{{.WorkshopName}}</strong> is confirmed.</p>
{{if .StartsAt}}<p>When: {{.StartsAt}}</p>{{end}}
{{if .Location}}<p>Where: {{.Location}}</p>{{end}}
<p>Price: {{.Price}}</p>
<p>Plans changed? You can cancel any time:</p>
<p><a href="{{.CancelURL}}">Cancel my enrollment</a></p>
`))

	orderTmpl = template.Must(template.New("order").Parse(`
<h2>Thanks for your order, {{.CustomerName}}!</h2>
<p>Order <strong>#{{.OrderID}}</strong> is confirmed.</p>
<p>Total: {{.Total}}</p>
<p>We'll let you know as soon as it ships.</p>
`))

	resetTmpl = template.Must(template.New("reset").Parse(`
<h2>Password reset</h2>
<p>Hi {{.CustomerName}}, someone asked to reset the password for this
account. If that was you, follow the link below. The link expires in
one hour.</p>
<p><a href="{{.ResetURL}}">Reset my password</a></p>
<p>If this wasn't you, ignore this email.</p>
`))

	verifyTmpl = template.Must(template.New("verify").Parse(`
<h2>Welcome, {{.CustomerName}}!</h2>
<p>Confirm your email address to finish setting up your account:</p>
<p><a href="{{.VerifyURL}}">Verify my account</a></p>
`))
)

// Renderer turns notification payloads into ready-to-send messages.
// BaseURL is the public site root used to build links the customer can
// click.
type Renderer struct {
	BaseURL string
}

func formatCents(cents uint32) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EnrollmentConfirmed renders the enrollment confirmation email.
func (r Renderer) EnrollmentConfirmed(n service.EnrollmentNotification) (subject, body string, err error) {
	body, err = render(enrollmentTmpl, struct {
		service.EnrollmentNotification
		Price     string
		CancelURL string
	}{n, formatCents(n.PriceCents), r.BaseURL + "/enrollments/cancel/" + n.CancelToken})
	return "Enrollment confirmed: " + n.WorkshopName, body, err
}

// OrderConfirmed renders the order confirmation email.
func (r Renderer) OrderConfirmed(n service.OrderNotification) (subject, body string, err error) {
	body, err = render(orderTmpl, struct {
		service.OrderNotification
		Total string
	}{n, formatCents(n.TotalCents)})
	return fmt.Sprintf("Order #%d confirmed", n.OrderID), body, err
}

// PasswordReset renders the password reset email.
func (r Renderer) PasswordReset(n service.PasswordResetNotification) (subject, body string, err error) {
	body, err = render(resetTmpl, struct {
		service.PasswordResetNotification
		ResetURL string
	}{n, r.BaseURL + "/reset-password/" + n.ResetToken})
	return "Reset your password", body, err
}

// VerifyAccount renders the account verification email.
func (r Renderer) VerifyAccount(n service.VerifyAccountNotification) (subject, body string, err error) {
	body, err = render(verifyTmpl, struct {
		service.VerifyAccountNotification
		VerifyURL string
	}{n, r.BaseURL + "/verify-account/" + n.VerifyToken})
	return "Verify your account", body, err
}
