package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/halfmoon/halfmoon/application/usecase"
	"github.com/halfmoon/halfmoon/infrastructure/config"
	"github.com/halfmoon/halfmoon/infrastructure/http/handler"
	"github.com/halfmoon/halfmoon/infrastructure/http/middleware"
	pgstore "github.com/halfmoon/halfmoon/infrastructure/persistence/postgres"
	redisstore "github.com/halfmoon/halfmoon/infrastructure/persistence/redis"
	jwtservice "github.com/halfmoon/halfmoon/infrastructure/service/jwt"
	"github.com/halfmoon/halfmoon/infrastructure/service/logger"
	"github.com/halfmoon/halfmoon/infrastructure/service/password"
	"github.com/halfmoon/halfmoon/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLog := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "halfmoon-auth",
	})
	structuredLog.WithField("env", cfg.Environment).Info("application starting")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLog.Info("database connection established")

	// A Redis client is needed when either the token store or the rate
	// limiter uses it.
	var redisClient *redis.Client
	if cfg.TokenStore == config.StoreRedis || cfg.RateLimitEnabled {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			if cfg.TokenStore == config.StoreRedis {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			structuredLog.WithError(err).Warn("Redis unavailable, rate limiting disabled")
			redisClient = nil
		}
	}

	tokenStore := pgstore.NewTokenRepository(db)
	if cfg.TokenStore == config.StoreRedis {
		tokenStore = redisstore.NewTokenRepository(redisClient)
		structuredLog.Info("using Redis token store")
	}
	userDirectory := pgstore.NewUserRepository(db)

	codec, err := jwtservice.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}
	passwords := password.NewBcryptService(0)

	var limiter ratelimit.Limiter = ratelimit.NewNoop()
	if cfg.RateLimitEnabled && redisClient != nil {
		limiter = ratelimit.NewWithClient(redisClient, cfg.RateLimitAttempts, cfg.RateLimitWindow, structuredLog)
	}

	authService := usecase.NewAuthService(codec, tokenStore, userDirectory, passwords, structuredLog)
	sweeper := usecase.NewExpirySweeper(tokenStore, cfg.SweepInterval, structuredLog)

	authMiddleware := middleware.NewAuthMiddleware(authService, structuredLog)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(limiter, structuredLog)
	authHandler := handler.NewAuthHandler(authService, structuredLog)

	router := mux.NewRouter()
	router.Use(middleware.CorrelationID)
	router.Use(authMiddleware.Authenticate)

	authHandler.RegisterRoutes(router, cfg.LoginPath, rateLimitMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods(http.MethodGet)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	go sweeper.Run(sweepCtx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLog.WithField("addr", server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLog.WithError(err).Error("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLog.Info("shutting down server")
	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLog.WithError(err).Error("server forced to shutdown")
	}
	structuredLog.Info("server exited")
}
