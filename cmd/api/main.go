package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/booking"
	"homebound-backend/internal/cache"
	"homebound-backend/internal/catalog"
	"homebound-backend/internal/config"
	"homebound-backend/internal/db"
	"homebound-backend/internal/mailer"
	"homebound-backend/internal/middleware"
	"homebound-backend/internal/notify"
	"homebound-backend/internal/secret"
	"homebound-backend/internal/users"
	"homebound-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	tokens := &auth.Manager{
		Secret:    []byte(cfg.JWTSecret),
		AccessTTL: time.Duration(cfg.AccessTTLMinutes) * time.Minute,
		Issuer:    "homebound",
	}

	var box *secret.Box
	if cfg.EncryptionKey != "" {
		box, err = secret.NewFromBase64(cfg.EncryptionKey)
		if err != nil {
			logger.Error("encryption key invalid", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		// Ephemeral key: encrypted card data will not survive a restart.
		box, err = secret.NewRandom()
		if err != nil {
			logger.Error("encryption key generation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Warn("ENCRYPTION_KEY not set, using ephemeral key")
	}

	var sender mailer.Sender
	if cfg.SMTPUser != "" && cfg.SMTPPass != "" {
		smtpSender, err := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			logger.Error("smtp client failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sender = smtpSender
		logger.Info("smtp mailer enabled", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Info("smtp mailer in mock mode")
	}
	mail := mailer.NewDispatcher(sender, logger, cfg.MailQueueSize)
	defer mail.Close()

	val := validation.New()

	catalogRepo := catalog.NewRepository(cols.Services)
	catalogService := catalog.NewService(catalogRepo)

	if seeded, err := catalogService.SeedIfEmpty(ctx); err != nil {
		logger.Error("catalog seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	} else if seeded {
		logger.Info("default services initialized")
	}

	notifyRepo := notify.NewRepository(cols.Notifications)
	notifyService := notify.NewService(notifyRepo)

	bookingRepo := booking.NewRepository(cols.Bookings)
	bookingService := booking.NewService(bookingRepo, catalogService)

	userRepo := users.NewRepository(cols.Users)
	userService := users.NewService(userRepo, tokens, box, bookingService, notifyService)

	userHandler := users.NewHandler(userService, notifyService, mail, val, logger)
	catalogHandler := catalog.NewHandler(catalogService, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)
	bookingHandler := booking.NewHandler(bookingService, userService, notifyService, mail, val, logger)
	notifyHandler := notify.NewHandler(notifyService, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Duration(cfg.RateLimitWindow)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Home Services API - Privacy by Design"}`))
		})

		api.With(authLimiter.Middleware).Post("/auth/register", userHandler.Register)
		api.With(authLimiter.Middleware).Post("/auth/login", userHandler.Login)
		api.Get("/services", catalogHandler.List)
		api.Get("/covid/restrictions", catalogHandler.Restrictions)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Auth(userService))

			protected.Get("/auth/me", userHandler.Me)
			protected.Delete("/user/delete", userHandler.Delete)
			protected.Get("/services/suggestions", catalogHandler.Suggestions)
			protected.Post("/bookings", bookingHandler.Create)
			protected.Get("/bookings", bookingHandler.ListMine)
			protected.Get("/bookings/{id}/qr", bookingHandler.QR)
			protected.Get("/notifications", notifyHandler.List)
			protected.Put("/notifications/read-all", notifyHandler.MarkAllRead)
			protected.Put("/notifications/{id}/read", notifyHandler.MarkRead)

			protected.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdmin)
				admin.Get("/admin/bookings", bookingHandler.AdminList)
				admin.Put("/admin/bookings/{id}", bookingHandler.AdminDecide)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
