package worker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jumewears/internal/mailer"
	"jumewears/internal/model"
	"jumewears/internal/queue"
)

// OrderProvider fetches order entries and their links for receipt emails.
// Abstracts the repository layer so workers don't depend on the DB directly.
type OrderProvider interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error)
	GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error)
}

// Handler processes mail events from the queue.
type Handler struct {
	mail   mailer.Service
	orders OrderProvider

	fromAddr     string
	fromName     string
	contactInbox string
}

// NewHandler creates a new event handler. contactInbox is where contact-form
// notifications are delivered.
func NewHandler(mail mailer.Service, orders OrderProvider, fromAddr, contactInbox string) *Handler {
	return &Handler{
		mail:         mail,
		orders:       orders,
		fromAddr:     fromAddr,
		fromName:     "Jume Megawears",
		contactInbox: contactInbox,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MailEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventContactMessage:
		err = h.handleContactMessage(ctx, event)
	case queue.EventOrderReceipt:
		err = h.handleOrderReceipt(ctx, event)
	default:
		log.Printf("[MailWorker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[MailWorker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[MailWorker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleContactMessage delivers a contact-form submission to the site inbox.
func (h *Handler) handleContactMessage(ctx context.Context, event queue.MailEvent) error {
	log.Printf("[MailWorker] ContactMessage: from=%s subject=%q", event.Email, event.Subject)

	var body strings.Builder
	fmt.Fprintf(&body, "New contact message\n\n")
	fmt.Fprintf(&body, "Name: %s\n", event.Name)
	fmt.Fprintf(&body, "Email: %s\n", event.Email)
	fmt.Fprintf(&body, "Subject: %s\n\n", event.Subject)
	fmt.Fprintf(&body, "%s\n", event.Message)

	email := mailer.Email{
		FromName: h.fromName,
		From:     h.fromAddr,
		To:       []string{h.contactInbox},
		Subject:  fmt.Sprintf("Contact form: %s", event.Subject),
		TextBody: body.String(),
		Headers:  map[string]string{"Reply-To": event.Email},
	}

	if err := h.mail.Send(ctx, email); err != nil {
		return fmt.Errorf("send contact message: %w", err)
	}
	return nil
}

// handleOrderReceipt emails a payment receipt to the order entry's address.
func (h *Handler) handleOrderReceipt(ctx context.Context, event queue.MailEvent) error {
	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		return fmt.Errorf("parse order id %q: %w", event.OrderID, err)
	}

	entry, err := h.orders.GetEntry(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order entry: %w", err)
	}

	link, err := h.orders.GetLink(ctx, entry.LinkID)
	if err != nil {
		return fmt.Errorf("get order link: %w", err)
	}

	log.Printf("[MailWorker] OrderReceipt: order=%s serial=%d to=%s", entry.ID, entry.SerialNumber, entry.Email)

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", entry.FullName)
	fmt.Fprintf(&body, "We received your payment for the %s group order.\n\n", link.OrganizationName)
	fmt.Fprintf(&body, "Order number: %d\n", entry.SerialNumber)
	fmt.Fprintf(&body, "Size: %s\n", entry.Size)
	if entry.CustomName != "" {
		fmt.Fprintf(&body, "Custom name: %s\n", entry.CustomName)
	}
	fmt.Fprintf(&body, "Amount: %.2f\n\n", float64(link.PricePerItemCents)/100)
	fmt.Fprintf(&body, "Thank you for your order.\n")

	email := mailer.Email{
		FromName: h.fromName,
		From:     h.fromAddr,
		To:       []string{entry.Email},
		Subject:  fmt.Sprintf("Your %s order receipt", link.OrganizationName),
		TextBody: body.String(),
	}

	if err := h.mail.Send(ctx, email); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	return nil
}
