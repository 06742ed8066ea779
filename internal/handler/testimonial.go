package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/render"
	"jumewears/internal/service"
	"jumewears/internal/transport/http/middleware"
)

type TestimonialHandler struct {
	testimonialService *service.TestimonialService
	renderer           *render.Renderer
}

func NewTestimonialHandler(testimonialService *service.TestimonialService, renderer *render.Renderer) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
		renderer:           renderer,
	}
}

// Toggle handles GET /testimonials/toggle/?show_more=true
// Returns the shuffled testimonial window as an HTML fragment.
func (h *TestimonialHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	showMore := r.URL.Query().Get("show_more") == "true"

	testimonials, err := h.testimonialService.Toggle(r.Context(), showMore)
	if err != nil {
		log.Printf("[ERROR] Testimonial toggle handler: err=%v", err)
		http.Error(w, "Failed to load testimonials", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = h.renderer.Testimonials(w, &render.TestimonialList{
		ShowMore:     showMore,
		Testimonials: testimonials,
	})
	if err != nil {
		log.Printf("[ERROR] Testimonial render: err=%v", err)
	}
}

// Create handles POST /api/testimonials/
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	testimonial, err := h.testimonialService.Create(r.Context(), userID, req.Content)
	if err != nil {
		if errors.Is(err, model.ErrTestimonialExists) {
			httputil.WriteConflict(w, "You already have a testimonial")
			return
		}
		log.Printf("[ERROR] Create testimonial handler: user=%d err=%v", userID, err)
		httputil.WriteBadRequest(w, "Failed to create testimonial")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, testimonial)
}

// Update handles PUT /api/testimonials/
func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	testimonial, err := h.testimonialService.Update(r.Context(), userID, req.Content)
	if err != nil {
		if errors.Is(err, model.ErrTestimonialNotFound) {
			httputil.WriteNotFound(w, "Testimonial not found")
			return
		}
		log.Printf("[ERROR] Update testimonial handler: user=%d err=%v", userID, err)
		httputil.WriteBadRequest(w, "Failed to update testimonial")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, testimonial)
}

// Delete handles DELETE /api/testimonials/{id}
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid testimonial ID")
		return
	}

	if err := h.testimonialService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrTestimonialNotFound) {
			httputil.WriteNotFound(w, "Testimonial not found")
			return
		}
		log.Printf("[ERROR] Delete testimonial handler: user=%d id=%d err=%v", userID, id, err)
		httputil.WriteInternalError(w, "Failed to delete testimonial")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Testimonial deleted successfully",
	})
}
