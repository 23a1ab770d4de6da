package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/advoga-scheduler/internal/db"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/objectstore"
	infraRepo "github.com/BruksfildServices01/advoga-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/advoga-scheduler/internal/logger"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New("advoga-api", cfg.IsDev())

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	streams, closeStreams := context.WithCancel(context.Background())
	defer closeStreams()
	deps.Shutdown = streams

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown não cancela o contexto das requisições; os streams SSE
	// precisam ser encerrados à parte para o servidor drenar.
	srv.RegisterOnShutdown(closeStreams)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("storage", cfg.Storage).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildDeps escolhe a implementação de cada peça conforme a configuração.
// cleanup fecha o que foi aberto, na ordem inversa.
func buildDeps(ctx context.Context, cfg *config.Config, log zerolog.Logger) (routes.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := routes.Deps{Config: cfg, Log: log}

	// --------------------------------------------------
	// Storage + auditoria
	// --------------------------------------------------
	var sink audit.Sink
	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		deps.Accounts = store
		deps.Pages = store
		deps.Appointments = store
		deps.Financial = store
		deps.Collaboration = store

		memSink := audit.NewMemorySink()
		sink = memSink
		deps.AuditReader = memSink

		log.Warn().Msg("STORAGE=memory: data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() { closeDB(db, log) })

		if err := dbpkg.Migrate(db, log); err != nil {
			cleanup()
			return deps, func() {}, err
		}

		deps.Accounts = infraRepo.NewAccountGormRepository(db)
		deps.Pages = infraRepo.NewPageGormRepository(db)
		deps.Appointments = infraRepo.NewAppointmentGormRepository(db)
		deps.Financial = infraRepo.NewFinancialGormRepository(db)
		deps.Collaboration = infraRepo.NewCollaborationGormRepository(db)

		auditLogger := audit.New(db)
		sink = auditLogger
		deps.AuditReader = auditLogger
	}

	dispatcher := audit.NewDispatcher(sink, log)
	deps.Audit = dispatcher
	closers = append(closers, dispatcher.Close)

	// --------------------------------------------------
	// Travas + eventos de convite
	// --------------------------------------------------
	if cfg.RedisEnabled() {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			cleanup()
			return deps, func() {}, fmt.Errorf("redis ping: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })

		deps.Locker = lock.NewRedis(rdb)
		deps.Broker = events.NewRedis(rdb, log)
		log.Info().Msg("redis locks and invite events enabled")
	} else {
		deps.Locker = lock.NewLocal()
		deps.Broker = events.NewLocal()
	}

	// --------------------------------------------------
	// Object storage (.ics)
	// --------------------------------------------------
	if cfg.S3Enabled() {
		deps.Objects = objectstore.NewS3(objectstore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	} else {
		deps.Objects = objectstore.NewMemory()
	}

	// --------------------------------------------------
	// Pagamentos
	// --------------------------------------------------
	if cfg.PaymentProvider == config.PaymentMercadoPago {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoAccessToken, cfg.MercadoPagoNotifyURL)
		if err != nil {
			cleanup()
			return deps, func() {}, err
		}
		deps.Gateway = mp
	} else {
		deps.Gateway = payment.NewSimulated()
	}

	return deps, cleanup, nil
}

func closeDB(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("close database")
	}
}
