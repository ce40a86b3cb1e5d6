package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/juicefit/juice-platform/internal/http/handlers"
	imw "github.com/juicefit/juice-platform/internal/http/middleware"
	"github.com/juicefit/juice-platform/internal/platform/cache"
	"github.com/juicefit/juice-platform/internal/platform/mailer"
	"github.com/juicefit/juice-platform/internal/platform/payments"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/internal/service"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/database"
	"github.com/juicefit/juice-platform/pkg/events"
	"github.com/juicefit/juice-platform/pkg/logger"
	mw "github.com/juicefit/juice-platform/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redis := cache.NewRedis(cfg.Redis)
	defer redis.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}

	stripeProvider := payments.NewStripeProvider(cfg.Stripe, cfg.Trainer.ActivationFeeCents, cfg.Trainer.Currency)

	tempRepo := postgres.NewTempTrainerRepository(pool)
	trainerRepo := postgres.NewTrainerRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	setupRepo := postgres.NewSetupRepository(pool)

	trainerService := service.NewTrainerService(tempRepo, mail, eventBus, cfg)
	directoryService := service.NewDirectoryService(trainerRepo, redis, cfg)
	leadService := service.NewLeadService(leadRepo, eventBus)
	paymentService := service.NewPaymentService(stripeProvider, tempRepo, trainerRepo, setupRepo, mail, redis, eventBus, cfg)
	accountService := service.NewAccountService(trainerRepo, setupRepo, cfg)

	h := handlers.New(trainerService, directoryService, leadService, paymentService, accountService, cfg)

	// Hourly sweep of setup codes past their retention window.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := setupRepo.DeleteExpired(context.Background())
			if err != nil {
				logger.Error("Setup code cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Expired setup codes removed", "count", n)
			}
		}
	}()

	createLimiter := imw.NewRateLimiter(pool, imw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  imw.ClientIPKeyFunc,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Site.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/trainer/temp", func(r chi.Router) {
			r.With(createLimiter.Middleware(), mw.Idempotency(redis)).Post("/", h.CreateTempTrainer)
			r.Get("/{tempID}", h.GetTempTrainer)
			r.Put("/{tempID}", h.UpdateTempTrainer)
		})

		r.Route("/trainer/account", func(r chi.Router) {
			r.Post("/setup", h.SetupAccount)
			r.Post("/verify-code", h.VerifyCode)
			r.Post("/login", h.Login)
		})

		r.Route("/trainers", func(r chi.Router) {
			r.Get("/", h.SearchTrainers)
			r.Get("/{id}", h.GetTrainer)
			r.With(h.RequireJWT("trainer")).Put("/{id}", h.UpdateTrainerProfile)
		})

		r.Route("/leads", func(r chi.Router) {
			r.With(createLimiter.Middleware(), mw.Idempotency(redis)).Post("/", h.CreateLead)
			r.Post("/steps", h.RecordLeadStep)
		})

		r.With(mw.Idempotency(redis)).Post("/create-payment-intent", h.CreatePaymentIntent)
		r.Post("/stripe/webhook", h.StripeWebhook)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireJWT("admin"))
			r.Get("/trainer/temp", h.ListTempTrainers)
			r.Get("/leads", h.ListLeads)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Api service shutdown error", "error", err)
		}
	}()

	logger.Info("Api service starting", "port", cfg.Server.Port, "environment", cfg.Stripe.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Api service failed", "error", err)
		os.Exit(1)
	}
}
