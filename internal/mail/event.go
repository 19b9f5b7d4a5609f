// Package mail handles transactional email: events are published to a
// RabbitMQ queue and a consumer renders and sends them over SMTP.
package mail

import "time"

// Event kinds carried on the notification queue.
const (
	EventWelcome           = "welcome"
	EventOrderConfirmation = "order_confirmation"
)

// Event is the message published for every notification email.
type Event struct {
	Kind      string    `json:"kind"`
	Recipient string    `json:"recipient"`
	Name      string    `json:"name,omitempty"`
	OrderNum  string    `json:"order_number,omitempty"`
	Total     float64   `json:"total,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWelcomeEvent builds the event sent after a successful signup.
func NewWelcomeEvent(recipient, name string) Event {
	return Event{
		Kind:      EventWelcome,
		Recipient: recipient,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewOrderConfirmationEvent builds the event sent after checkout.
func NewOrderConfirmationEvent(recipient, name, orderNumber string, total float64) Event {
	return Event{
		Kind:      EventOrderConfirmation,
		Recipient: recipient,
		Name:      name,
		OrderNum:  orderNumber,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
}
