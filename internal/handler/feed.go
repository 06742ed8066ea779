package handler

import (
	"log"
	"net/http"
	"strconv"

	"jumewears/internal/render"
	"jumewears/internal/service"
)

type FeedHandler struct {
	feedService *service.FeedService
	renderer    *render.Renderer
}

func NewFeedHandler(feedService *service.FeedService, renderer *render.Renderer) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		renderer:    renderer,
	}
}

// LoadMore handles GET /feed/load-more/?offset=N
// Returns the next window of mixed feed items as an HTML fragment. An empty
// body tells the client the feed is exhausted.
func (h *FeedHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			http.Error(w, "Invalid offset", http.StatusBadRequest)
			return
		}
		offset = parsed
	}

	items, err := h.feedService.LoadMore(r.Context(), offset)
	if err != nil {
		log.Printf("[ERROR] Feed LoadMore handler: offset=%d err=%v", offset, err)
		http.Error(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.FeedItems(w, items); err != nil {
		log.Printf("[ERROR] Feed render: offset=%d err=%v", offset, err)
	}
}
