package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"jumewears/internal/model"
	"jumewears/internal/queue"
	"jumewears/internal/repository"
)

const couponAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BulkOrderService handles group-order links, participant entries and
// payment state. Receipts go out through the mail stream, never inline.
type BulkOrderService struct {
	repo      repository.BulkOrderRepository
	publisher queue.Publisher
}

func NewBulkOrderService(repo repository.BulkOrderRepository, publisher queue.Publisher) *BulkOrderService {
	return &BulkOrderService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateLink creates a shareable order link with its batch of coupon codes.
func (s *BulkOrderService) CreateLink(ctx context.Context, userID int64, req model.CreateLinkRequest) (*model.BulkOrderLink, error) {
	fe := model.FieldErrors{}

	orgName := strings.ToUpper(strings.TrimSpace(req.OrganizationName))
	if orgName == "" {
		fe.Add("organization_name", "This field is required.")
	}
	if req.PricePerItemCents <= 0 {
		fe.Add("price_per_item", "Price must be greater than zero.")
	}
	if fe.HasErrors() {
		return nil, fe
	}
	if !req.PaymentDeadline.After(time.Now()) {
		return nil, model.ErrDeadlineInPast
	}

	link := &model.BulkOrderLink{
		ID:                    uuid.New(),
		OrganizationName:      orgName,
		PricePerItemCents:     req.PricePerItemCents,
		CustomBrandingEnabled: req.CustomBrandingEnabled,
		PaymentDeadline:       req.PaymentDeadline,
		CreatedBy:             userID,
	}

	codes, err := generateCouponCodes(model.CouponsPerLink)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coupon codes: %w", err)
	}

	if err := s.repo.CreateLink(ctx, link, codes); err != nil {
		return nil, fmt.Errorf("failed to create bulk order link: %w", err)
	}

	return link, nil
}

// generateCouponCodes produces n random codes over A-Z0-9.
func generateCouponCodes(n int) ([]string, error) {
	codes := make([]string, n)
	for i := range codes {
		buf := make([]byte, model.CouponCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		for j, b := range buf {
			buf[j] = couponAlphabet[int(b)%len(couponAlphabet)]
		}
		codes[i] = string(buf)
	}
	return codes, nil
}

func (s *BulkOrderService) GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	return s.repo.GetLink(ctx, id)
}

// GetLinkSummary builds the public link page payload: the link plus
// submission counts, leaving out the entries themselves.
func (s *BulkOrderService) GetLinkSummary(ctx context.Context, id uuid.UUID) (*model.BulkOrderLinkSummary, error) {
	link, err := s.repo.GetLinkWithOrders(ctx, id)
	if err != nil {
		return nil, err
	}

	paid := 0
	for _, entry := range link.Orders {
		if entry.Paid {
			paid++
		}
	}

	coupons, err := s.repo.CountCoupons(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &model.BulkOrderLinkSummary{
		Link:             link,
		OrderCount:       len(link.Orders),
		PaidCount:        paid,
		CouponsRemaining: coupons,
		Expired:          link.IsExpired(),
	}
	link.Orders = nil
	return summary, nil
}

// GetLinkWithOrders returns the link and all its entries for the organizer view.
func (s *BulkOrderService) GetLinkWithOrders(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	return s.repo.GetLinkWithOrders(ctx, id)
}

func (s *BulkOrderService) ListActiveLinks(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error) {
	return s.repo.ListActiveLinks(ctx, createdBy)
}

// SubmitEntry validates and records one participant's order. Validation
// failures come back as FieldErrors so the form can render per-field
// messages. The serial number is assigned inside the repository's locking
// transaction.
func (s *BulkOrderService) SubmitEntry(ctx context.Context, linkID uuid.UUID, req model.CreateEntryRequest) (*model.OrderEntry, error) {
	link, err := s.repo.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.IsExpired() {
		return nil, model.ErrLinkExpired
	}

	fe := model.FieldErrors{}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		fe.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		fe.Add("email", "Enter a valid email address.")
	}

	fullName := strings.ToUpper(strings.TrimSpace(req.FullName))
	if fullName == "" {
		fe.Add("full_name", "This field is required.")
	}

	size := strings.ToUpper(strings.TrimSpace(req.Size))
	if !model.ValidOrderSize(size) {
		fe.Add("size", "Select a valid size.")
	}

	customName := strings.ToUpper(strings.TrimSpace(req.CustomName))
	if customName != "" && !link.CustomBrandingEnabled {
		fe.Add("custom_name", "Custom names are not enabled for this order.")
	}

	var coupon *model.CouponCode
	if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
		coupon, err = s.repo.GetUnusedCoupon(ctx, linkID, code)
		if err == model.ErrCouponNotFound {
			fe.Add("coupon_code", "Invalid or already used coupon code.")
		} else if err != nil {
			return nil, fmt.Errorf("failed to check coupon: %w", err)
		}
	}

	if fe.HasErrors() {
		return nil, fe
	}

	entry := &model.OrderEntry{
		ID:         uuid.New(),
		LinkID:     linkID,
		Email:      email,
		FullName:   fullName,
		Size:       size,
		CustomName: customName,
	}

	if err := s.repo.CreateEntry(ctx, entry, coupon); err != nil {
		return nil, fmt.Errorf("failed to create order entry: %w", err)
	}

	// A redeemed coupon settles the entry at creation, so the receipt goes
	// out now instead of waiting on a payment webhook.
	if entry.Paid {
		event := queue.NewOrderReceiptEvent(entry.ID.String())
		if _, err := s.publisher.Publish(ctx, queue.StreamMail, event); err != nil {
			log.Printf("[BulkOrderService] SubmitEntry: failed to queue receipt for order=%s: %v", entry.ID, err)
		}
	}

	return entry, nil
}

func (s *BulkOrderService) GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error) {
	return s.repo.GetEntry(ctx, id)
}

// MarkPaid records a successful payment for an entry. Already-paid entries
// are left alone so webhook retries stay idempotent; the receipt is only
// queued on the first transition.
func (s *BulkOrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, reference string) error {
	updated, err := s.repo.MarkEntryPaid(ctx, orderID, reference)
	if err != nil {
		return err
	}
	if !updated {
		log.Printf("[BulkOrderService] MarkPaid: order=%s already paid, skipping receipt", orderID)
		return nil
	}

	event := queue.NewOrderReceiptEvent(orderID.String())
	if _, err := s.publisher.Publish(ctx, queue.StreamMail, event); err != nil {
		// Payment state is committed; the receipt can be resent by hand
		log.Printf("[BulkOrderService] MarkPaid: failed to queue receipt for order=%s: %v", orderID, err)
	}
	return nil
}
