package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusverein/member-portal/internal/api"
	"github.com/campusverein/member-portal/internal/core/ports"
	"github.com/campusverein/member-portal/internal/infrastructure/config"
	portalmongo "github.com/campusverein/member-portal/internal/infrastructure/db/mongo"
	"github.com/campusverein/member-portal/internal/infrastructure/db/postgres"
	portalredis "github.com/campusverein/member-portal/internal/infrastructure/db/redis"
	"github.com/campusverein/member-portal/internal/infrastructure/queue"
	"github.com/campusverein/member-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	rdb, err := portalredis.Connect(ctx, portalredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	mongoClient, mdb, err := portalmongo.Connect(ctx, portalmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// Audit writes go through the async dispatcher so the request path
	// never waits on the trail.
	trail := portalmongo.NewAuditTrail(mdb)
	audit := queue.NewAuditDispatcher(0, trail, ports.SystemClock{}, log)
	audit.Start(ctx)

	accountRepo := postgres.NewAccountRepository(db)
	userdataRepo := postgres.NewUserDataRepository(db)

	e := api.NewRouter(cfg, db, rdb, mdb, audit, accountRepo, userdataRepo, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
