package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticketify/config"
	"ticketify/internal/cache"
	"ticketify/internal/database"
	"ticketify/internal/handler"
	"ticketify/internal/identity"
	"ticketify/internal/queue"
	"ticketify/internal/repository"
	"ticketify/internal/service"
	"ticketify/internal/session"
	"ticketify/internal/storage"
	"ticketify/internal/worker"
	"ticketify/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// purchasePendingTTL bounds how long an in-flight idempotency key blocks a retry.
const purchasePendingTTL = 30 * time.Second

func main() {
	cfg := config.LoadConfig()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.L.Warn("Invalid log level, keeping info", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	defer logger.L.Sync()
	log := logger.WithComponent("main")

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	sb, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	if err != nil {
		log.Fatal("Failed to initialize supabase client", zap.Error(err))
	}

	var verifier identity.TokenVerifier
	if cfg.Supabase.JWKSURL != "" {
		jwks, err := identity.NewJWKSVerifier(ctx, cfg.Supabase.JWKSURL)
		if err != nil {
			log.Fatal("Failed to load JWKS", zap.String("url", cfg.Supabase.JWKSURL), zap.Error(err))
		}
		defer jwks.Close()
		verifier = jwks
	} else {
		if cfg.Supabase.JWTSecret == "" {
			log.Fatal("SUPABASE_JWT_SECRET or SUPABASE_JWKS_URL is required")
		}
		verifier = identity.NewHMACVerifier([]byte(cfg.Supabase.JWTSecret))
	}

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	// redis-backed coordination
	statsCache := cache.NewRedisStatsCache(rdb, cfg.Cache.StatsTTL)
	guard := cache.NewRedisPurchaseGuard(rdb, purchasePendingTTL, cfg.Cache.IdempotencyTTL)
	purchaseQueue, err := queue.NewRedisStreamPurchaseQueue(ctx, rdb, "api-"+uuid.NewString(), nil)
	if err != nil {
		log.Fatal("Failed to initialize purchase queue", zap.Error(err))
	}

	// services
	profileService := service.NewProfileService(profileRepo)
	eventService := service.NewEventService(eventRepo, storage.NewSupabaseImageStore(sb.Storage, cfg.Supabase.StorageBucket), statsCache)
	purchaseService := service.NewPurchaseService(database.NewTransactor(pool), eventRepo, ticketRepo, guard, purchaseQueue)
	ticketService := service.NewTicketService(ticketRepo)
	statsService := service.NewStatsService(eventRepo, ticketRepo, statsCache)

	manager := session.NewManager(identity.NewSupabaseProvider(sb.Auth), verifier, profileService)

	if err := worker.NewPurchaseWorker(statsCache, purchaseQueue).Start(ctx); err != nil {
		log.Fatal("Failed to start purchase worker", zap.Error(err))
	}

	router := handler.NewRouter(&cfg.Server, manager, handler.Handlers{
		Auth:    handler.NewAuthHandler(manager),
		Profile: handler.NewProfileHandler(profileService),
		Event:   handler.NewEventHandler(eventService),
		Ticket:  handler.NewTicketHandler(purchaseService, ticketService),
		Stats:   handler.NewStatsHandler(statsService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
