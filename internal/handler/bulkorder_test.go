package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"jumewears/internal/model"
	"jumewears/internal/service"
)

func submitEntry(h *BulkOrderHandler, linkID uuid.UUID, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/bulk-orders/{id}/entries", h.SubmitEntry)

	req := httptest.NewRequest(http.MethodPost, "/bulk-orders/"+linkID.String()+"/entries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBulkOrder_SubmitEntry_CouponRaceAnswersFieldError(t *testing.T) {
	linkID := uuid.New()
	repo := &stubBulkOrderRepository{
		link: &model.BulkOrderLink{
			ID:                linkID,
			OrganizationName:  "ST PETERS CHOIR",
			PricePerItemCents: 250000,
			PaymentDeadline:   time.Now().Add(72 * time.Hour),
			CreatedBy:         1,
		},
		coupon: &model.CouponCode{ID: uuid.New(), LinkID: linkID, Code: "AB12CD34"},
		// The coupon validates, then a concurrent submission redeems it
		// before this entry's transaction commits.
		createEntryErr: model.ErrCouponNotFound,
	}
	h := NewBulkOrderHandler(service.NewBulkOrderService(repo, &stubPublisher{}))

	rec := submitEntry(h, linkID, `{"email":"a@b.com","full_name":"A","size":"M","coupon_code":"AB12CD34"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	msgs := body.Errors["coupon_code"]
	if len(msgs) == 0 || msgs[0] != "Invalid or already used coupon code." {
		t.Errorf(`errors["coupon_code"] = %v, want the invalid-coupon message`, msgs)
	}
}
