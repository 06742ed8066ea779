package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the mail stream.
const (
	EventContactMessage = "contact_message"
	EventOrderReceipt   = "order_receipt"
)

// Stream and consumer group names.
const (
	StreamMail = "stream:mail"

	ConsumerGroupMail = "mail_workers"
)

// MailEvent is one unit of outbound email work. The HTTP path publishes and
// returns; workers render and send.
type MailEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	// Contact message fields.
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`

	// Receipt fields.
	OrderID string `json:"order_id,omitempty"`
}

// NewContactMessageEvent queues the contact-form notification email.
func NewContactMessageEvent(name, email, subject, message string) MailEvent {
	return MailEvent{
		Type:      EventContactMessage,
		Timestamp: time.Now().Unix(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
	}
}

// NewOrderReceiptEvent queues a receipt for a paid order entry.
func NewOrderReceiptEvent(orderID string) MailEvent {
	return MailEvent{
		Type:      EventOrderReceipt,
		Timestamp: time.Now().Unix(),
		OrderID:   orderID,
	}
}

// ToMap serializes the event for XADD field-value storage.
func (e MailEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{"data": string(data)}, nil
}

// EventFromValues parses an event out of a stream entry's values.
func EventFromValues(values map[string]interface{}) (MailEvent, error) {
	raw, ok := values["data"].(string)
	if !ok {
		return MailEvent{}, fmt.Errorf("stream entry missing data field")
	}
	var e MailEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return MailEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}
