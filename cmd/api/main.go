package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/todo-system/internal/api"
	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/infrastructure/config"
	mongodb "github.com/taskhive/todo-system/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/todo-system/internal/infrastructure/db/redis"
	"github.com/taskhive/todo-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Startup tasks: indexes and the question catalog ---
	if err := ensureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	e := api.NewRouter(db, rdb, cfg.SessionTTL, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureSchema creates indexes and seeds the security-question catalog when
// it is empty.
func ensureSchema(ctx context.Context, db *mongo.Database) error {
	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	security := mongodb.NewSecurityRepository(db)
	if err := security.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := security.SeedQuestions(ctx, domain.DefaultSecurityQuestions); err != nil {
		return err
	}
	lists := mongodb.NewListRepository(db)
	if err := lists.EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewTaskRepository(db).EnsureIndexes(ctx)
}
