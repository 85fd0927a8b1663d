package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmgraph/internal/config"
	"filmgraph/internal/database"
	"filmgraph/internal/handlers"
	"filmgraph/internal/logging"
	"filmgraph/internal/middleware"
	"filmgraph/internal/services"
	"filmgraph/internal/storage"
	"filmgraph/internal/storage/memory"
	"filmgraph/internal/storage/postgres"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"env": cfg.Server.Environment,
		})
	}

	logger.Info("Starting filmgraph server...")

	var (
		userStorage   storage.UserStorage
		friendStorage storage.FriendStorage
		filmStorage   storage.FilmStorage
		likeStorage   storage.LikeStorage
		genreStorage  storage.GenreStorage
		mpaStorage    storage.MpaStorage

		dbPinger handlers.Pinger
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Info("Using in-memory storage")
		store := memory.NewStore()
		userStorage = store
		friendStorage = store
		filmStorage = store
		likeStorage = store
		genreStorage = store
		mpaStorage = store

	case config.BackendPostgres:
		logger.Info("Connecting to PostgreSQL", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := database.NewPostgresDB(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()
		logger.Info("Connected to PostgreSQL")

		logger.Info("Running database migrations...")
		migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
		_ = migrator.Close()
		logger.Info("Migrations completed")

		adapter := postgres.NewPoolAdapter(db.Pool)
		userStorage = postgres.NewUserStore(adapter)
		friendStorage = postgres.NewFriendStore(adapter)
		filmStorage = postgres.NewFilmStore(adapter)
		likeStorage = postgres.NewLikeStore(adapter)
		genreStorage = postgres.NewGenreStore(adapter)
		mpaStorage = postgres.NewMpaStore(adapter)
		dbPinger = db
	}

	var (
		redisClient *redis.Client
		redisPinger handlers.Pinger
	)
	if cfg.Redis.Enabled {
		logger.Info("Connecting to Redis", map[string]interface{}{
			"addr": cfg.Redis.Addr(),
		})
		redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		logger.Info("Connected to Redis")
		redisClient = redisDB.Client
		redisPinger = redisDB
	}

	// Services
	userService := services.NewUserService(userStorage, friendStorage)
	filmService := services.NewFilmService(filmStorage, likeStorage, genreStorage, mpaStorage, userService)
	referenceService := services.NewReferenceService(genreStorage, mpaStorage)

	// Handlers
	healthHandler := handlers.NewHealthHandler(dbPinger, redisPinger)
	userHandler := handlers.NewUserHandler(userService)
	filmHandler := handlers.NewFilmHandler(filmService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)

	// Middleware
	requestLogger := middleware.NewRequestLogger(logger)
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window, "ratelimit:api:")

	// API routes sit behind the rate limiter; health probes do not.
	api := http.NewServeMux()

	// User endpoints
	api.HandleFunc("GET /users", userHandler.List)
	api.HandleFunc("POST /users", userHandler.Create)
	api.HandleFunc("PUT /users", userHandler.Update)
	api.HandleFunc("GET /users/{id}", userHandler.Get)
	api.HandleFunc("PUT /users/{id}/friends/{friendId}", userHandler.AddFriend)
	api.HandleFunc("DELETE /users/{id}/friends/{friendId}", userHandler.DeleteFriend)
	api.HandleFunc("GET /users/{id}/friends", userHandler.ListFriends)
	api.HandleFunc("GET /users/{id}/friends/common/{otherId}", userHandler.ListCommonFriends)

	// Film endpoints
	api.HandleFunc("GET /films", filmHandler.List)
	api.HandleFunc("POST /films", filmHandler.Create)
	api.HandleFunc("PUT /films", filmHandler.Update)
	api.HandleFunc("GET /films/popular", filmHandler.Popular)
	api.HandleFunc("GET /films/{id}", filmHandler.Get)
	api.HandleFunc("PUT /films/{id}/like/{userId}", filmHandler.AddLike)
	api.HandleFunc("DELETE /films/{id}/like/{userId}", filmHandler.DeleteLike)

	// Reference data endpoints
	api.HandleFunc("GET /genres", referenceHandler.ListGenres)
	api.HandleFunc("GET /genres/{id}", referenceHandler.GetGenre)
	api.HandleFunc("GET /mpa", referenceHandler.ListMpa)
	api.HandleFunc("GET /mpa/{id}", referenceHandler.GetMpa)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.Handle("/", rateLimiter.Middleware(api))

	// Request logging wraps everything (order matters: outermost first)
	var handler http.Handler = mux
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
