package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"smartpay/internal/notify"
)

// NotificationMessage is the wire form of a payment reminder.
type NotificationMessage struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Urgency   string    `json:"urgency"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationMessage wraps n with a fresh message id. The timestamp is the
// moment the reminder was decided, or now when unknown.
func NewNotificationMessage(n notify.Notification) *NotificationMessage {
	ts := n.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &NotificationMessage{
		ID:        uuid.New(),
		Title:     n.Title,
		Message:   n.Message,
		Urgency:   string(n.Urgency),
		Count:     n.Count,
		Timestamp: ts.UTC(),
	}
}

// Notification converts the message back to the domain form.
func (m *NotificationMessage) Notification() notify.Notification {
	return notify.Notification{
		Title:   m.Title,
		Message: m.Message,
		Urgency: notify.Urgency(m.Urgency),
		Count:   m.Count,
		At:      m.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
