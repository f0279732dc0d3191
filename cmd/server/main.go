package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"ticket-marketplace/internal/config"
	"ticket-marketplace/internal/database"
	"ticket-marketplace/internal/handlers"
	"ticket-marketplace/internal/middleware"
	"ticket-marketplace/internal/queue"
	"ticket-marketplace/internal/repositories"
	"ticket-marketplace/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	checkoutRepo := repositories.NewCheckoutRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)

	// Checkout idempotency records live in redis when it is configured
	var recorder services.CheckoutRecorder
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		recorder = repositories.NewIdempotencyStore(client, 24*time.Hour)
		log.Println("Redis idempotency store initialized")
	} else {
		log.Println("REDIS_ADDR not set, checkout idempotency keys disabled")
	}

	// Broker is optional as well
	var publisher services.EventPublisher
	if cfg.Broker.URL != "" {
		p, err := queue.NewPublisher(cfg.Broker.URL)
		if err != nil {
			log.Printf("Warning: failed to connect to broker: %v", err)
		} else {
			defer p.Close()
			publisher = p
			log.Println("Broker connection established successfully")
		}
	}

	// Initialize services
	storage, err := services.NewLocalArtifactStorage(cfg.QR.StoragePath, cfg.QR.PublicURL)
	if err != nil {
		log.Fatal("Failed to initialize artifact storage:", err)
	}

	ticketService := services.NewTicketService(ticketRepo, services.NewQRService(), storage, publisher, cfg.Server.BaseURL, cfg.QR.Size)
	cartService := services.NewCartService(cartRepo, eventRepo, accountRepo)
	checkoutService := services.NewCheckoutService(checkoutRepo, ticketService, recorder, publisher)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountRepo)
	eventHandler := handlers.NewEventHandler(eventRepo)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	ticketHandler := handlers.NewTicketHandler(ticketService)

	redemptionLimiter := middleware.NewRedemptionRateLimiter(30, time.Minute)

	// Initialize router
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	// Stored QR artifacts
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.QR.StoragePath))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/events", eventHandler.List)
	r.Get("/events/{eventID}", eventHandler.Get)

	r.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Get("/", accountHandler.Get)
		r.Get("/cart", cartHandler.Get)
		r.Post("/cart/lines", cartHandler.AddLine)
		r.Put("/cart/lines/{lineID}", cartHandler.UpdateLine)
		r.Delete("/cart/lines/{lineID}", cartHandler.RemoveLine)
		r.Post("/cart/clear", cartHandler.Clear)
		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/tickets", ticketHandler.List)
	})

	r.Get("/tickets/{token}/qr", ticketHandler.QR)

	r.With(middleware.RedemptionRateLimit(redemptionLimiter)).
		Get("/redeem", ticketHandler.Redeem)

	r.Post("/admin/accounts/{accountID}/credit", accountHandler.Credit)
	r.Post("/admin/tickets", ticketHandler.Issue)
	r.Delete("/admin/accounts/{accountID}/tickets", ticketHandler.Purge)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
