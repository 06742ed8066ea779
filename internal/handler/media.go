package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"jumewears/internal/httputil"
	"jumewears/internal/model"
	"jumewears/internal/service"
)

// MediaHandler is the staff surface for feed image management.
type MediaHandler struct {
	feedService *service.FeedService
}

func NewMediaHandler(feedService *service.FeedService) *MediaHandler {
	return &MediaHandler{feedService: feedService}
}

// UploadFeedImage handles POST /api/feed/images (staff only)
// Stores the image in object storage and activates it in the feed.
func (h *MediaHandler) UploadFeedImage(w http.ResponseWriter, r *http.Request) {
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

	image, err := h.feedService.AddImage(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds the 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, webp")
		default:
			log.Printf("[ERROR] UploadFeedImage handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to upload feed image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, image)
}

// RemoveFeedImage handles DELETE /api/feed/images/{id} (staff only)
// Deactivates the image so it drops out of the feed.
func (h *MediaHandler) RemoveFeedImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteNotFound(w, "Feed image not found")
		return
	}

	if err := h.feedService.RemoveImage(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrFeedImageNotFound) {
			httputil.WriteNotFound(w, "Feed image not found")
			return
		}
		log.Printf("[ERROR] RemoveFeedImage handler: id=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to remove feed image")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Feed image removed",
	})
}
