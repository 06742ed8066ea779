package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/render"
	"jumewears/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	renderer       *render.Renderer
}

func NewProductHandler(productService *service.ProductService, renderer *render.Renderer) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		renderer:       renderer,
	}
}

// Section handles GET /products/load-more/?type=kit&action=expand&category=away
// Returns the section HTML fragment the load-more client swaps in place.
func (h *ProductHandler) Section(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("type")
	expanded := r.URL.Query().Get("action") == "expand"
	category := r.URL.Query().Get("category")

	section, err := h.productService.GetSection(r.Context(), productType, category, expanded)
	if err != nil {
		if errors.Is(err, model.ErrUnknownSection) {
			http.NotFound(w, r)
			return
		}
		log.Printf("[ERROR] Section handler: type=%s err=%v", productType, err)
		http.Error(w, "Failed to load section", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.ProductSection(w, section); err != nil {
		log.Printf("[ERROR] Section render: type=%s err=%v", productType, err)
	}
}

// Search handles GET /api/products/?type=kit&category=away&search=jersey
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("type")
	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("search")

	products, err := h.productService.Search(r.Context(), productType, category, query)
	if err != nil {
		if errors.Is(err, model.ErrUnknownSection) {
			httputil.WriteBadRequest(w, "Unknown product type")
			return
		}
		log.Printf("[ERROR] Search handler: q=%q err=%v", query, err)
		httputil.WriteInternalError(w, "Failed to search products")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{type}/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productType := chi.URLParam(r, "type")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), productType, id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			httputil.WriteNotFound(w, "Product not found")
			return
		}
		log.Printf("[ERROR] Get product handler: id=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to get product")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// UploadImage handles POST /api/products/{type}/{id}/image (staff only)
// Stores the original plus a thumbnail and updates the product record.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	productType := chi.URLParam(r, "type")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	result, err := h.productService.UploadImage(r.Context(), productType, id, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			httputil.WriteNotFound(w, "Product not found")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds the 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, webp")
		default:
			log.Printf("[ERROR] UploadImage handler: id=%s err=%v", id, err)
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
