package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/neonwriters/backend/internal/config"
	"github.com/neonwriters/backend/internal/handlers"
	"github.com/neonwriters/backend/internal/mailer"
	mW "github.com/neonwriters/backend/internal/middleware"
	"github.com/neonwriters/backend/internal/notifications"
	"github.com/neonwriters/backend/internal/payments"
	"github.com/neonwriters/backend/internal/registry"
	"github.com/neonwriters/backend/internal/store"
)

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")
	viper.SetDefault("jwt.expiry_hours", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize the persistent store
	var st store.Store
	if redisClient := store.InitRedis(); redisClient != nil {
		defer redisClient.Close()
		st = store.NewRedisStore(redisClient)
	} else {
		log.Println("Falling back to in-memory store; data will not survive restarts")
		st = store.NewMemoryStore()
	}

	// Initialize services
	reg := registry.New(st)
	paymentService := payments.NewService(st)
	notificationService := notifications.NewService(st)
	relay := mailer.NewRelay(mailer.NewSMTPSender(config.LoadMailConfig()))

	authHandler := handlers.NewAuthHandler(reg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	emailHandler := handlers.NewEmailHandler(relay)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Mail relay endpoints (public, matching the legacy backend paths)
	r.Get("/api/health", emailHandler.Health)
	r.Post("/api/send-email", emailHandler.SendEmail)
	r.Post("/api/send-response", emailHandler.SendResponse)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Get("/auth/account", authHandler.Account)

			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications", notificationHandler.Add)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Put("/notifications/{notificationId}/read", notificationHandler.MarkRead)

			// Admin payment endpoints
			r.Group(func(r chi.Router) {
				r.Use(mW.RequireAdmin)

				r.Get("/payments", paymentHandler.List)
				r.Post("/payments", paymentHandler.Record)
				r.Get("/payments/stats", paymentHandler.Stats)
				r.Get("/payments/export", paymentHandler.Export)
				r.Get("/payments/{paymentId}", paymentHandler.Get)
				r.Put("/payments/{paymentId}/paid", paymentHandler.MarkPaid)
				r.Put("/payments/{paymentId}/failed", paymentHandler.MarkFailed)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
