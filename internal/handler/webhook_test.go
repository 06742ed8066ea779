package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"jumewears/internal/model"
	"jumewears/internal/queue"
	"jumewears/internal/service"
)

const testWebhookSecret = "whsec_test"

type stubBulkOrderRepository struct {
	paidOrders map[uuid.UUID]string
	knownOrder uuid.UUID

	link           *model.BulkOrderLink
	coupon         *model.CouponCode
	createEntryErr error
}

func (s *stubBulkOrderRepository) CreateLink(ctx context.Context, link *model.BulkOrderLink, couponCodes []string) error {
	return nil
}

func (s *stubBulkOrderRepository) GetLink(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	if s.link != nil {
		return s.link, nil
	}
	return nil, model.ErrLinkNotFound
}

func (s *stubBulkOrderRepository) GetLinkWithOrders(ctx context.Context, id uuid.UUID) (*model.BulkOrderLink, error) {
	return nil, model.ErrLinkNotFound
}

func (s *stubBulkOrderRepository) ListActiveLinks(ctx context.Context, createdBy int64) ([]model.BulkOrderLink, error) {
	return nil, nil
}

func (s *stubBulkOrderRepository) CreateEntry(ctx context.Context, entry *model.OrderEntry, coupon *model.CouponCode) error {
	return s.createEntryErr
}

func (s *stubBulkOrderRepository) GetEntry(ctx context.Context, id uuid.UUID) (*model.OrderEntry, error) {
	return nil, model.ErrOrderNotFound
}

func (s *stubBulkOrderRepository) GetUnusedCoupon(ctx context.Context, linkID uuid.UUID, code string) (*model.CouponCode, error) {
	if s.coupon != nil {
		return s.coupon, nil
	}
	return nil, model.ErrCouponNotFound
}

func (s *stubBulkOrderRepository) MarkEntryPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	if id != s.knownOrder {
		return false, model.ErrOrderNotFound
	}
	if _, alreadyPaid := s.paidOrders[id]; alreadyPaid {
		return false, nil
	}
	s.paidOrders[id] = reference
	return true, nil
}

func (s *stubBulkOrderRepository) CountCoupons(ctx context.Context, linkID uuid.UUID) (int, error) {
	return 0, nil
}

type stubPublisher struct {
	published int
}

func (s *stubPublisher) Publish(ctx context.Context, stream string, event queue.MailEvent) (string, error) {
	s.published++
	return "1-0", nil
}

func signPayload(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(h *WebhookHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("X-Payment-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.Payments(rec, req)
	return rec
}

func chargeSuccessPayload(orderID uuid.UUID, reference string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"charge.success","data":{"reference":%q,"metadata":{"order_id":%q}}}`,
		reference, orderID,
	))
}

func newWebhookTest(orderID uuid.UUID) (*WebhookHandler, *stubBulkOrderRepository, *stubPublisher) {
	repo := &stubBulkOrderRepository{
		paidOrders: make(map[uuid.UUID]string),
		knownOrder: orderID,
	}
	pub := &stubPublisher{}
	svc := service.NewBulkOrderService(repo, pub)
	return NewWebhookHandler(svc, testWebhookSecret), repo, pub
}

func TestWebhook_ChargeSuccessMarksPaid(t *testing.T) {
	orderID := uuid.New()
	h, repo, pub := newWebhookTest(orderID)

	payload := chargeSuccessPayload(orderID, "ref_001")
	rec := postWebhook(h, payload, signPayload(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if got := repo.paidOrders[orderID]; got != "ref_001" {
		t.Errorf("payment reference = %q, want ref_001", got)
	}
	if pub.published != 1 {
		t.Errorf("published %d receipt events, want 1", pub.published)
	}
}

func TestWebhook_RetryIsIdempotent(t *testing.T) {
	orderID := uuid.New()
	h, _, pub := newWebhookTest(orderID)

	payload := chargeSuccessPayload(orderID, "ref_001")
	postWebhook(h, payload, signPayload(payload))
	rec := postWebhook(h, payload, signPayload(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", rec.Code)
	}
	if pub.published != 1 {
		t.Errorf("published %d receipt events across retries, want 1", pub.published)
	}
}

func TestWebhook_InvalidSignature(t *testing.T) {
	orderID := uuid.New()
	h, repo, _ := newWebhookTest(orderID)

	payload := chargeSuccessPayload(orderID, "ref_001")
	tests := []struct {
		name      string
		signature string
	}{
		{"missing signature", ""},
		{"wrong signature", "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(h, payload, tt.signature)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if len(repo.paidOrders) != 0 {
		t.Error("unsigned events must not change payment state")
	}
}

func TestWebhook_UnknownOrderStillAcknowledged(t *testing.T) {
	h, _, _ := newWebhookTest(uuid.New())

	// A verified event for an order we do not know: acknowledge so the
	// provider stops retrying
	payload := chargeSuccessPayload(uuid.New(), "ref_404")
	rec := postWebhook(h, payload, signPayload(payload))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestWebhook_IgnoredEventType(t *testing.T) {
	orderID := uuid.New()
	h, repo, _ := newWebhookTest(orderID)

	payload := []byte(fmt.Sprintf(
		`{"event":"charge.failed","data":{"reference":"ref_002","metadata":{"order_id":%q}}}`,
		orderID,
	))
	rec := postWebhook(h, payload, signPayload(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(repo.paidOrders) != 0 {
		t.Error("non-success events must not mark orders paid")
	}
}
