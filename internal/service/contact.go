package service

import (
	"context"
	"fmt"
	"strings"

	"jumewears/internal/model"
	"jumewears/internal/queue"
)

// ContactService accepts contact-form submissions and queues the
// notification email. Delivery happens in the workers; the HTTP response
// never waits on SMTP.
type ContactService struct {
	publisher queue.Publisher
}

func NewContactService(publisher queue.Publisher) *ContactService {
	return &ContactService{publisher: publisher}
}

// Submit validates the form and publishes the mail event. Every field is
// required.
func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return model.ErrContactFieldsRequired
	}

	event := queue.NewContactMessageEvent(name, email, subject, message)
	if _, err := s.publisher.Publish(ctx, queue.StreamMail, event); err != nil {
		return fmt.Errorf("failed to queue contact message: %w", err)
	}
	return nil
}
