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
	"jumewears/internal/service"
	"jumewears/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List handles GET /api/comments/?content_type=...&object_id=...
// Returns the full nested thread for one target. A target nothing has been
// posted to serializes as [], whether or not it exists.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("content_type")
	objectID := r.URL.Query().Get("object_id")
	if contentType == "" || objectID == "" {
		httputil.WriteDetail(w, http.StatusBadRequest, "content_type and object_id are required.")
		return
	}

	thread, err := h.commentService.GetThread(r.Context(), contentType, objectID)
	if err != nil {
		log.Printf("[ERROR] List comments handler: target=%s/%s err=%v", contentType, objectID, err)
		httputil.WriteInternalError(w, "Failed to load comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, thread)
}

// Create handles POST /api/comments/
// Creates a comment or reply for the authenticated user.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteDetail(w, http.StatusBadRequest, "Comment content is required.")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteDetail(w, http.StatusBadRequest, "Comment is too long.")
		case errors.Is(err, model.ErrInvalidTarget):
			httputil.WriteDetail(w, http.StatusBadRequest, "Invalid content_type or object_id.")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrParentMismatch):
			httputil.WriteDetail(w, http.StatusBadRequest, "Parent comment belongs to a different target.")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Delete handles DELETE /api/comments/{id}/
// Owners delete their own comments; staff can delete any. Comments with
// replies are blanked in place so the thread keeps its shape.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentIDStr := chi.URLParam(r, "id")
	commentID, err := strconv.ParseInt(commentIDStr, 10, 64)
	if err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid comment ID.")
		return
	}

	isStaff := middleware.GetIsStaffFromContext(r.Context())

	err = h.commentService.Delete(r.Context(), commentID, userID, isStaff)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			log.Printf("[ERROR] Delete comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}
