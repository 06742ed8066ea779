package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"jumewears/internal/config"
	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/service"
	"jumewears/internal/transport/http/middleware"
)

// CartCookieName carries the guest cart UUID between requests.
const CartCookieName = "cart_id"

// cartCookieMaxAge keeps guest carts around for 30 days.
const cartCookieMaxAge = 30 * 24 * 60 * 60

type CartHandler struct {
	cartService *service.CartService
	config      *config.Config
}

func NewCartHandler(cartService *service.CartService, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		config:      cfg,
	}
}

// resolveCart finds the request's cart and refreshes the guest cookie so the
// cart survives across visits.
func (h *CartHandler) resolveCart(w http.ResponseWriter, r *http.Request) (*model.Cart, error) {
	var userID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	var cookieCartID *uuid.UUID
	if cookie, err := r.Cookie(CartCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			cookieCartID = &id
		}
	}

	cart, err := h.cartService.Resolve(r.Context(), userID, cookieCartID)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    cart.ID.String(),
		Path:     "/",
		MaxAge:   cartCookieMaxAge,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return cart, nil
}

// AddItem handles POST /cart/items
// Accepts the add-to-cart form and answers the cart contract body:
// {"status": "success", "cartCount": N}.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			writeCartError(w, http.StatusBadRequest, "Invalid form data.")
			return
		}
	}

	quantity := 1
	if q := r.FormValue("quantity"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			writeCartError(w, http.StatusBadRequest, "Invalid quantity.")
			return
		}
		quantity = parsed
	}

	req := model.AddToCartRequest{
		ProductType:    r.FormValue("product_type"),
		ProductID:      r.FormValue("product_id"),
		Quantity:       quantity,
		CallUpNumber:   r.FormValue("call_up_number"),
		CustomNameText: r.FormValue("custom_name_text"),
	}

	cart, err := h.resolveCart(w, r)
	if err != nil {
		log.Printf("[ERROR] AddItem cart resolve: err=%v", err)
		writeCartError(w, http.StatusInternalServerError, "Failed to load cart.")
		return
	}

	count, err := h.cartService.AddItem(r.Context(), cart.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			writeCartError(w, http.StatusNotFound, "Product not found.")
		case errors.Is(err, model.ErrProductNotPurchasable):
			writeCartError(w, http.StatusBadRequest, "This product is not available.")
		case errors.Is(err, model.ErrInvalidQuantity):
			writeCartError(w, http.StatusBadRequest, "Invalid quantity.")
		default:
			log.Printf("[ERROR] AddItem handler: cart=%s err=%v", cart.ID, err)
			writeCartError(w, http.StatusInternalServerError, "Failed to add to cart.")
		}
		return
	}

	httputil.WriteCartStatus(w, http.StatusOK, model.CartStatusResponse{
		Status:    "success",
		CartCount: count,
	})
}

// UpdateItem handles POST /cart/items/update
// Form: product_type, product_id, quantity. Zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeCartError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	productType := r.FormValue("product_type")
	productID, err := uuid.Parse(r.FormValue("product_id"))
	if err != nil {
		writeCartError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		writeCartError(w, http.StatusBadRequest, "Invalid quantity.")
		return
	}

	cart, err := h.resolveCart(w, r)
	if err != nil {
		writeCartError(w, http.StatusInternalServerError, "Failed to load cart.")
		return
	}

	count, err := h.cartService.UpdateQuantity(r.Context(), cart.ID, productID, productType, quantity)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidQuantity):
			writeCartError(w, http.StatusBadRequest, "Invalid quantity.")
		case errors.Is(err, model.ErrCartItemNotFound):
			writeCartError(w, http.StatusNotFound, "Item not in cart.")
		default:
			log.Printf("[ERROR] UpdateItem handler: cart=%s err=%v", cart.ID, err)
			writeCartError(w, http.StatusInternalServerError, "Failed to update cart.")
		}
		return
	}

	httputil.WriteCartStatus(w, http.StatusOK, model.CartStatusResponse{
		Status:    "success",
		CartCount: count,
	})
}

// RemoveItem handles POST /cart/items/remove
// Form: product_type, product_id.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeCartError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	productType := r.FormValue("product_type")
	productID, err := uuid.Parse(r.FormValue("product_id"))
	if err != nil {
		writeCartError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}

	cart, err := h.resolveCart(w, r)
	if err != nil {
		writeCartError(w, http.StatusInternalServerError, "Failed to load cart.")
		return
	}

	count, err := h.cartService.RemoveItem(r.Context(), cart.ID, productID, productType)
	if err != nil {
		log.Printf("[ERROR] RemoveItem handler: cart=%s err=%v", cart.ID, err)
		writeCartError(w, http.StatusInternalServerError, "Failed to update cart.")
		return
	}

	httputil.WriteCartStatus(w, http.StatusOK, model.CartStatusResponse{
		Status:    "success",
		CartCount: count,
	})
}

// Get handles GET /cart
// Returns the cart with its items.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolveCart(w, r)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to load cart")
		return
	}

	cart, err = h.cartService.GetCart(r.Context(), cart.ID)
	if err != nil {
		log.Printf("[ERROR] Get cart handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load cart")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cart":        cart,
		"total_cents": cart.TotalCents(),
		"cartCount":   cart.Count(),
	})
}

// Count handles GET /cart/count
// The badge in the header polls this; it is served from Redis when warm.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	cart, err := h.resolveCart(w, r)
	if err != nil {
		writeCartError(w, http.StatusInternalServerError, "Failed to load cart.")
		return
	}

	count, err := h.cartService.Count(r.Context(), cart.ID)
	if err != nil {
		log.Printf("[ERROR] Count handler: cart=%s err=%v", cart.ID, err)
		writeCartError(w, http.StatusInternalServerError, "Failed to count cart.")
		return
	}

	httputil.WriteCartStatus(w, http.StatusOK, model.CartStatusResponse{
		Status:    "success",
		CartCount: count,
	})
}

func writeCartError(w http.ResponseWriter, status int, detail string) {
	httputil.WriteCartStatus(w, status, model.CartStatusResponse{
		Status: "error",
		Detail: detail,
	})
}
