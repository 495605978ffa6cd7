// Package queue moves notification events through RabbitMQ.  The
// publisher side implements the outbound notification gateway; the
// consumer side drains the queues and hands each event to the mailer.
// Queues are durable and messages persistent, so a broker restart
// loses nothing that was already accepted.
package queue

// One durable queue per event type.  The routing key equals the queue
// name (default exchange), which is what the consumer dispatches on.
const (
	QueueEnrollmentConfirmed = "enrollment.confirmed"
	QueueOrderConfirmed      = "order.confirmed"
	QueuePasswordReset       = "account.password_reset"
	QueueVerifyAccount       = "account.verify"
)
