package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/service"
)

// maxWebhookBody caps how much of a webhook payload we will read.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	bulkOrderService *service.BulkOrderService
	secret           []byte
}

func NewWebhookHandler(bulkOrderService *service.BulkOrderService, secret string) *WebhookHandler {
	return &WebhookHandler{
		bulkOrderService: bulkOrderService,
		secret:           []byte(secret),
	}
}

// paymentEvent is the slice of the provider payload we act on.
type paymentEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Metadata  struct {
			OrderID string `json:"order_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// Payments handles POST /webhooks/payments
// Verifies the provider signature over the raw body, then marks the
// referenced order paid on charge.success. The provider retries on non-2xx,
// so every verified event answers 200 even when the order is unknown.
func (h *WebhookHandler) Payments(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httputil.WriteBadRequest(w, "Failed to read body")
		return
	}

	signature := r.Header.Get("X-Payment-Signature")
	if !h.verifySignature(body, signature) {
		log.Printf("[WARN] Payments webhook: invalid signature from %s", r.RemoteAddr)
		httputil.WriteBadRequest(w, "Invalid signature")
		return
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		httputil.WriteBadRequest(w, "Invalid payload")
		return
	}

	if event.Event != "charge.success" {
		// Acknowledge event types we do not act on
		w.WriteHeader(http.StatusOK)
		return
	}

	orderID, err := uuid.Parse(event.Data.Metadata.OrderID)
	if err != nil {
		log.Printf("[WARN] Payments webhook: bad order id %q ref=%s", event.Data.Metadata.OrderID, event.Data.Reference)
		w.WriteHeader(http.StatusOK)
		return
	}

	err = h.bulkOrderService.MarkPaid(r.Context(), orderID, event.Data.Reference)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			log.Printf("[WARN] Payments webhook: unknown order %s ref=%s", orderID, event.Data.Reference)
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Printf("[ERROR] Payments webhook: order=%s err=%v", orderID, err)
		httputil.WriteInternalError(w, "Failed to process payment")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if len(h.secret) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
