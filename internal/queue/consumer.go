package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/atelierhq/workshop-studio/internal/email"
	"github.com/atelierhq/workshop-studio/internal/service"
)

// Consumer drains the notification queues and turns each event into an
// outgoing email.  Each queue gets its own reconnect loop: a broken
// connection backs off and redials, a malformed message is rejected
// without requeue so it cannot spin the loop.
type Consumer struct {
	url      string
	sender   email.Sender
	renderer email.Renderer
}

// NewConsumer builds a consumer that mails through sender.
func NewConsumer(url string, sender email.Sender, renderer email.Renderer) *Consumer {
	return &Consumer{url: url, sender: sender, renderer: renderer}
}

// Start launches one consuming goroutine per queue and returns
// immediately.  The loops run for the life of the process.
func (c *Consumer) Start() {
	go c.consumeForever(QueueEnrollmentConfirmed, c.handleEnrollment)
	go c.consumeForever(QueueOrderConfirmed, c.handleOrder)
	go c.consumeForever(QueuePasswordReset, c.handlePasswordReset)
	go c.consumeForever(QueueVerifyAccount, c.handleVerify)
}

func (c *Consumer) consumeForever(queueName string, handle func([]byte) error) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("consumer %s: dial failed: %v; retrying in %s", queueName, err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(conn, queueName, handle); err != nil {
			log.Printf("consumer %s: loop ended: %v; reconnecting", queueName, err)
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func (c *Consumer) consumeLoop(conn *amqp.Connection, queueName string, handle func([]byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("consumer %s: set QoS failed: %v", queueName, err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handle(d.Body); err != nil {
			log.Printf("consumer %s: handle message failed: %v", queueName, err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) deliver(to, subject, body string, renderErr error) error {
	if renderErr != nil {
		return fmt.Errorf("render: %w", renderErr)
	}
	if err := c.sender.Send(context.Background(), to, subject, body); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

func (c *Consumer) handleEnrollment(body []byte) error {
	var n service.EnrollmentNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	subject, html, err := c.renderer.EnrollmentConfirmed(n)
	return c.deliver(n.CustomerEmail, subject, html, err)
}

func (c *Consumer) handleOrder(body []byte) error {
	var n service.OrderNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	subject, html, err := c.renderer.OrderConfirmed(n)
	return c.deliver(n.CustomerEmail, subject, html, err)
}

func (c *Consumer) handlePasswordReset(body []byte) error {
	var n service.PasswordResetNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	subject, html, err := c.renderer.PasswordReset(n)
	return c.deliver(n.CustomerEmail, subject, html, err)
}

func (c *Consumer) handleVerify(body []byte) error {
	var n service.VerifyAccountNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	subject, html, err := c.renderer.VerifyAccount(n)
	return c.deliver(n.CustomerEmail, subject, html, err)
}
