package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jumewears/internal/cache"
	"jumewears/internal/config"
	"jumewears/internal/database"
	"jumewears/internal/flash"
	"jumewears/internal/handler"
	"jumewears/internal/mailer"
	"jumewears/internal/queue"
	"jumewears/internal/redis"
	"jumewears/internal/render"
	"jumewears/internal/repository"
	"jumewears/internal/service"
	"jumewears/internal/worker"
)

// Run wires the whole application and blocks until shutdown.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()
	if err := redisClient.Ping(startupCtx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	productRepo := repository.NewProductRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	bulkOrderRepo := repository.NewBulkOrderRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)

	// Caches and the mail stream share the one Redis pool
	cartCountCache := cache.NewCartCountCache(redisClient.Client)
	youtubeCache := cache.NewYouTubeCache(redisClient.Client)
	responseCache := cache.NewResponseCache(redisClient.Client, cache.DefaultResponseTTL)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	mediaService, err := service.NewMediaService(startupCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	commentService := service.NewCommentService(commentRepo, productRepo, blogRepo)
	cartService := service.NewCartService(cartRepo, productRepo, cartCountCache)
	productService := service.NewProductService(productRepo, mediaService)
	bulkOrderService := service.NewBulkOrderService(bulkOrderRepo, publisher)
	contactService := service.NewContactService(publisher)
	feedService := service.NewFeedService(feedRepo, youtubeCache, mediaService, cfg.YouTubeAPIKey, cfg.YouTubeChannelID)
	testimonialService := service.NewTestimonialService(testimonialRepo)

	// Background mail workers
	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		TLSMode:  cfg.SMTPTLSMode,
	})
	mailHandler := worker.NewHandler(smtpMailer, bulkOrderRepo, cfg.MailFrom, cfg.ContactEmail)
	mailWorkers := worker.NewPool(consumer, mailHandler, worker.PoolConfig{})
	if err := mailWorkers.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start mail workers: %w", err)
	}
	defer mailWorkers.Stop()

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	flashes := flash.NewCodec([]byte(cfg.CSRFKey), "flash", cfg.SecureCookies)

	router := NewRouter(RouterConfig{
		AuthHandler:        handler.NewAuthHandler(authService, cfg),
		CommentHandler:     handler.NewCommentHandler(commentService),
		CartHandler:        handler.NewCartHandler(cartService, cfg),
		ProductHandler:     handler.NewProductHandler(productService, renderer),
		BulkOrderHandler:   handler.NewBulkOrderHandler(bulkOrderService),
		ContactHandler:     handler.NewContactHandler(contactService, flashes),
		FeedHandler:        handler.NewFeedHandler(feedService, renderer),
		TestimonialHandler: handler.NewTestimonialHandler(testimonialService, renderer),
		MediaHandler:       handler.NewMediaHandler(feedService),
		WebhookHandler:     handler.NewWebhookHandler(bulkOrderService, cfg.PaymentWebhookSecret),

		ResponseCache: responseCache,

		JWTSecret:     cfg.JWTSecret,
		CSRFKey:       cfg.CSRFKey,
		SecureCookies: cfg.SecureCookies,
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
