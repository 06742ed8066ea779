package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"jumewears/internal/cache"
	"jumewears/internal/handler"
	"jumewears/internal/httputil"
	authmw "jumewears/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	CommentHandler     *handler.CommentHandler
	CartHandler        *handler.CartHandler
	ProductHandler     *handler.ProductHandler
	BulkOrderHandler   *handler.BulkOrderHandler
	ContactHandler     *handler.ContactHandler
	FeedHandler        *handler.FeedHandler
	TestimonialHandler *handler.TestimonialHandler
	MediaHandler       *handler.MediaHandler
	WebhookHandler     *handler.WebhookHandler

	ResponseCache *cache.ResponseCache

	JWTSecret     string
	CSRFKey       string
	SecureCookies bool
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Webhooks authenticate with their own HMAC signature, never CSRF
	r.Post("/webhooks/payments", cfg.WebhookHandler.Payments)

	csrfProtect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
	)

	r.Group(func(r chi.Router) {
		r.Use(csrfProtect)

		// Public routes - no authentication required
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		// Comment threads are public to read, auth to write
		r.Route("/api/comments", func(r chi.Router) {
			r.Get("/", cfg.CommentHandler.List)
			r.With(authmw.RequireAuth(cfg.JWTSecret)).Post("/", cfg.CommentHandler.Create)
			r.With(authmw.RequireAuth(cfg.JWTSecret)).Delete("/{id}", cfg.CommentHandler.Delete)
		})

		// Carts work for guests via the cart cookie
		r.Route("/cart", func(r chi.Router) {
			r.Use(authmw.OptionalAuth(cfg.JWTSecret))
			r.Get("/", cfg.CartHandler.Get)
			r.Get("/count", cfg.CartHandler.Count)
			r.Post("/items", cfg.CartHandler.AddItem)
			r.Post("/items/update", cfg.CartHandler.UpdateItem)
			r.Post("/items/remove", cfg.CartHandler.RemoveItem)
		})

		// Catalog fragments and JSON API, cached in Redis
		r.Group(func(r chi.Router) {
			if cfg.ResponseCache != nil {
				r.Use(cfg.ResponseCache.Middleware("text/html; charset=utf-8"))
			}
			r.Get("/products/load-more/", cfg.ProductHandler.Section)
			r.Get("/feed/load-more/", cfg.FeedHandler.LoadMore)
		})
		r.Group(func(r chi.Router) {
			if cfg.ResponseCache != nil {
				r.Use(cfg.ResponseCache.Middleware("application/json"))
			}
			r.Get("/api/products/", cfg.ProductHandler.Search)
			r.Get("/api/products/{type}/{id}", cfg.ProductHandler.Get)
		})

		r.Get("/testimonials/toggle/", cfg.TestimonialHandler.Toggle)

		r.Post("/contact/", cfg.ContactHandler.Submit)
		r.Get("/flash", cfg.ContactHandler.Flash)

		// Bulk order links: the link page and entry form are public, the
		// unguessable UUID is the capability
		r.Route("/bulk-orders", func(r chi.Router) {
			r.Get("/{id}", cfg.BulkOrderHandler.GetLink)
			r.Post("/{id}/entries", cfg.BulkOrderHandler.SubmitEntry)
			r.Get("/entries/{orderId}", cfg.BulkOrderHandler.GetEntry)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAuth(cfg.JWTSecret))
				r.Use(authmw.RequireStaff)
				r.Post("/", cfg.BulkOrderHandler.CreateLink)
				r.Get("/", cfg.BulkOrderHandler.ListLinks)
				r.Get("/{id}/entries", cfg.BulkOrderHandler.GetLinkOrders)
			})
		})

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(cfg.JWTSecret))

			r.Get("/me", cfg.AuthHandler.Me)

			r.Route("/api/testimonials", func(r chi.Router) {
				r.Post("/", cfg.TestimonialHandler.Create)
				r.Put("/", cfg.TestimonialHandler.Update)
				r.Delete("/{id}", cfg.TestimonialHandler.Delete)
			})

			// Staff catalog and feed management
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireStaff)
				r.Post("/api/products/{type}/{id}/image", cfg.ProductHandler.UploadImage)
				r.Post("/api/feed/images", cfg.MediaHandler.UploadFeedImage)
				r.Delete("/api/feed/images/{id}", cfg.MediaHandler.RemoveFeedImage)
			})
		})
	})

	return r
}
