package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/service"
	"jumewears/internal/transport/http/middleware"
)

type BulkOrderHandler struct {
	bulkOrderService *service.BulkOrderService
}

func NewBulkOrderHandler(bulkOrderService *service.BulkOrderService) *BulkOrderHandler {
	return &BulkOrderHandler{
		bulkOrderService: bulkOrderService,
	}
}

// CreateLink handles POST /bulk-orders/ (staff only)
// Creates a shareable group-order link with its coupon batch.
func (h *BulkOrderHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	link, err := h.bulkOrderService.CreateLink(r.Context(), userID, req)
	if err != nil {
		if fe, ok := model.AsFieldErrors(err); ok {
			httputil.WriteFieldErrors(w, fe)
			return
		}
		if errors.Is(err, model.ErrDeadlineInPast) {
			httputil.WriteBadRequest(w, "Payment deadline must be in the future")
			return
		}
		log.Printf("[ERROR] CreateLink handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to create bulk order link")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, link)
}

// ListLinks handles GET /bulk-orders/ (staff only)
// Returns the caller's links whose deadline has not passed.
func (h *BulkOrderHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	links, err := h.bulkOrderService.ListActiveLinks(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] ListLinks handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list bulk order links")
		return
	}
	if links == nil {
		links = []model.BulkOrderLink{}
	}

	httputil.WriteJSON(w, http.StatusOK, links)
}

// GetLink handles GET /bulk-orders/{id}
// Public: participants open this page from the shared link.
func (h *BulkOrderHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteNotFound(w, "Bulk order link not found")
		return
	}

	summary, err := h.bulkOrderService.GetLinkSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			httputil.WriteNotFound(w, "Bulk order link not found")
			return
		}
		log.Printf("[ERROR] GetLink handler: id=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to load bulk order link")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}

// GetLinkOrders handles GET /bulk-orders/{id}/entries (staff only)
// The organizer view: the link with every submitted entry.
func (h *BulkOrderHandler) GetLinkOrders(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteNotFound(w, "Bulk order link not found")
		return
	}

	link, err := h.bulkOrderService.GetLinkWithOrders(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			httputil.WriteNotFound(w, "Bulk order link not found")
			return
		}
		log.Printf("[ERROR] GetLinkOrders handler: id=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to load bulk order")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, link)
}

// SubmitEntry handles POST /bulk-orders/{id}/entries
// Records one participant's order. Validation failures come back as
// {"errors": {"field": ["msg"]}} so the form renders messages per input.
func (h *BulkOrderHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteNotFound(w, "Bulk order link not found")
		return
	}

	var req model.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.bulkOrderService.SubmitEntry(r.Context(), id, req)
	if err != nil {
		if fe, ok := model.AsFieldErrors(err); ok {
			httputil.WriteFieldErrors(w, fe)
			return
		}
		switch {
		case errors.Is(err, model.ErrLinkNotFound):
			httputil.WriteNotFound(w, "Bulk order link not found")
		case errors.Is(err, model.ErrLinkExpired):
			httputil.WriteDetail(w, http.StatusBadRequest, "The payment deadline for this order has passed.")
		case errors.Is(err, model.ErrCouponNotFound):
			// The coupon passed validation but was redeemed by a
			// concurrent submission before this entry committed.
			fe := model.FieldErrors{}
			fe.Add("coupon_code", "Invalid or already used coupon code.")
			httputil.WriteFieldErrors(w, fe)
		default:
			log.Printf("[ERROR] SubmitEntry handler: link=%s err=%v", id, err)
			httputil.WriteInternalError(w, "Failed to submit order")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, entry)
}

// GetEntry handles GET /bulk-orders/entries/{orderId}
// The participant's own order page, keyed by the unguessable entry UUID.
func (h *BulkOrderHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteNotFound(w, "Order not found")
		return
	}

	entry, err := h.bulkOrderService.GetEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			httputil.WriteNotFound(w, "Order not found")
			return
		}
		log.Printf("[ERROR] GetEntry handler: id=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to load order")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entry)
}
