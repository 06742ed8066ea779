package mailer

import "context"

// Service sends a single email. Implementations must be safe for
// concurrent use because several workers share one instance.
type Service interface {
	Send(ctx context.Context, e Email) error
}

// Email is a fully composed outbound message.
type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}
