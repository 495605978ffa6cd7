package email

import (
	"context"
	"log"

	"github.com/atelierhq/workshop-studio/internal/service"
)

// DirectNotifier sends notification email straight over SMTP, with no
// broker in between.  It is the fallback wiring when AMQP_URL is not
// configured.  Failures are logged and dropped.
type DirectNotifier struct {
	sender   Sender
	renderer Renderer
}

// NewDirectNotifier builds a notifier that mails through sender.
func NewDirectNotifier(sender Sender, renderer Renderer) *DirectNotifier {
	return &DirectNotifier{sender: sender, renderer: renderer}
}

func (d *DirectNotifier) send(ctx context.Context, to, subject, body string, renderErr error) {
	if renderErr != nil {
		log.Printf("email: render failed: %v", renderErr)
		return
	}
	if err := d.sender.Send(ctx, to, subject, body); err != nil {
		log.Printf("email: send to %s failed: %v", to, err)
	}
}

// EnrollmentConfirmed mails the enrollment confirmation.
func (d *DirectNotifier) EnrollmentConfirmed(ctx context.Context, n service.EnrollmentNotification) {
	subject, body, err := d.renderer.EnrollmentConfirmed(n)
	d.send(ctx, n.CustomerEmail, subject, body, err)
}

// OrderConfirmed mails the order confirmation.
func (d *DirectNotifier) OrderConfirmed(ctx context.Context, n service.OrderNotification) {
	subject, body, err := d.renderer.OrderConfirmed(n)
	d.send(ctx, n.CustomerEmail, subject, body, err)
}

// PasswordReset mails the reset link.
func (d *DirectNotifier) PasswordReset(ctx context.Context, n service.PasswordResetNotification) {
	subject, body, err := d.renderer.PasswordReset(n)
	d.send(ctx, n.CustomerEmail, subject, body, err)
}

// VerifyAccount mails the verification link.
func (d *DirectNotifier) VerifyAccount(ctx context.Context, n service.VerifyAccountNotification) {
	subject, body, err := d.renderer.VerifyAccount(n)
	d.send(ctx, n.CustomerEmail, subject, body, err)
}
