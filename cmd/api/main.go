package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/lendex/docs"
	"github.com/fkhayef/lendex/internal/borrower"
	"github.com/fkhayef/lendex/internal/config"
	"github.com/fkhayef/lendex/internal/database"
	"github.com/fkhayef/lendex/internal/emi"
	"github.com/fkhayef/lendex/internal/loan"
	"github.com/fkhayef/lendex/internal/mailer"
	"github.com/fkhayef/lendex/internal/notification"
	"github.com/fkhayef/lendex/internal/reminder"
	"github.com/fkhayef/lendex/internal/user"
	mw "github.com/fkhayef/lendex/pkg/middleware"
	"github.com/fkhayef/lendex/pkg/tokenstore"
)

// @title        Lendex API
// @version      1.0
// @description  Informal lending tracker with overdue detection and reminders
// @BasePath     /api/v1
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.Info("Connected to database successfully")

	// Token store: Redis when configured, in-process memory otherwise
	var tokens tokenstore.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()
		tokens = tokenstore.NewRedis(client, "lendex:")
		logger.WithField("addr", cfg.RedisAddr).Info("Using Redis token store")
	} else {
		mem := tokenstore.NewMemory()
		defer mem.Close()
		tokens = mem
	}

	mail := mailer.New(cfg, logger)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, tokens, mail, cfg, logger)
	userHandler := user.NewHandler(userService)

	// Borrower feature
	borrowerRepo := borrower.NewRepository(db)
	borrowerService := borrower.NewService(borrowerRepo)
	borrowerHandler := borrower.NewHandler(borrowerService)

	// Loan feature
	loanRepo := loan.NewRepository(db)
	loanService := loan.NewService(loanRepo, borrowerService, logger)
	loanHandler := loan.NewHandler(loanService)

	// EMI feature
	emiRepo := emi.NewRepository(db)
	emiService := emi.NewService(emiRepo, logger)
	emiHandler := emi.NewHandler(emiService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, mail, userService, logger)
	notificationHandler := notification.NewHandler(notificationService)

	// Daily overdue sweep
	scheduler := reminder.NewScheduler(loanRepo, emiRepo, notificationService, logger)
	if err := scheduler.Start(cfg.ReminderCron); err != nil {
		logger.WithError(err).Fatal("Failed to start reminder scheduler")
	}
	defer scheduler.Stop()

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/borrowers", borrowerHandler.Routes())
			r.Mount("/borrowers/{borrowerId}/loans", loanHandler.BorrowerRoutes())
			r.Mount("/loans", loanHandler.Routes())
			r.Mount("/emis", emiHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}
