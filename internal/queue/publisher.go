package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/atelierhq/workshop-studio/internal/service"
)

// Publisher pushes notification events onto RabbitMQ.  It implements
// service.Notifier: every method publishes one persistent message and
// logs any failure without reporting it back, so a broker outage can
// never fail an enrollment or an order that already committed.
type Publisher struct {
	url string
}

// NewPublisher builds a publisher for the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// publish dials, declares the durable queue (idempotent) and pushes a
// single persistent JSON message.  A connection per publish keeps the
// code robust against stale channels at the cost of throughput, which
// is fine at notification volumes.
func (p *Publisher) publish(ctx context.Context, queueName string, event any) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", queueName, err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queueName, err)
	}
}

// EnrollmentConfirmed publishes an enrollment confirmation event.
func (p *Publisher) EnrollmentConfirmed(ctx context.Context, n service.EnrollmentNotification) {
	p.publish(ctx, QueueEnrollmentConfirmed, n)
}

// OrderConfirmed publishes an order confirmation event.
func (p *Publisher) OrderConfirmed(ctx context.Context, n service.OrderNotification) {
	p.publish(ctx, QueueOrderConfirmed, n)
}

// PasswordReset publishes a password reset event.
func (p *Publisher) PasswordReset(ctx context.Context, n service.PasswordResetNotification) {
	p.publish(ctx, QueuePasswordReset, n)
}

// VerifyAccount publishes an account verification event.
func (p *Publisher) VerifyAccount(ctx context.Context, n service.VerifyAccountNotification) {
	p.publish(ctx, QueueVerifyAccount, n)
}
