package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/dtroode/invitekeeper/internal/api/http/context"
	"github.com/dtroode/invitekeeper/internal/api/http/router"
	httpServer "github.com/dtroode/invitekeeper/internal/api/http/server"
	"github.com/dtroode/invitekeeper/internal/config"
	"github.com/dtroode/invitekeeper/internal/localstore"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/media"
	"github.com/dtroode/invitekeeper/internal/model"
	"github.com/dtroode/invitekeeper/internal/server"
	"github.com/dtroode/invitekeeper/internal/service"
	"github.com/dtroode/invitekeeper/internal/storage/bolt"
	"github.com/dtroode/invitekeeper/internal/storage/memory"
	storage "github.com/dtroode/invitekeeper/internal/storage/minio"
	"github.com/dtroode/invitekeeper/internal/storage/postgres"
	"github.com/dtroode/invitekeeper/internal/storage/sqlite"
	"github.com/dtroode/invitekeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage backend", "backend", cfg.Store.Backend, "error", err)
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}
	logger.Info("storage backend ready", "backend", cfg.Store.Backend)

	encoder, err := newMediaEncoder(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize media storage", "mode", cfg.Media.Mode, "error", err)
	}

	store := localstore.New(backend, logger.With("backend", cfg.Store.Backend))
	client := service.NewClient(store, newTokenManager(cfg), encoder, logger)
	if err := client.Restore(ctx); err != nil {
		logger.Warn("failed to restore session, starting signed out", "error", err)
	}

	r := router.New(client, token.NewOpaque(), httpctx.NewManager(), router.Config{
		Environment: cfg.Environment,
		BodyLimit:   cfg.HTTP.BodyLimit,
	}, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion(logger.Logger)

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion(l *slog.Logger) {
	l.Info("build info", "version", buildVersion, "date", buildDate, "commit", buildCommit)
}

// openBackend returns the configured key-value backend. File and database
// backends also implement io.Closer.
func openBackend(ctx context.Context, cfg *config.Config) (model.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendBolt:
		b, err := bolt.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendSQLite:
		b, err := sqlite.Open(cfg.Store.Path, cfg.LogLevel <= int(slog.LevelDebug))
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendPostgres:
		b, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return memory.New(cfg.Store.QuotaBytes), nil
	}
}

func newMediaEncoder(ctx context.Context, cfg *config.Config) (service.MediaEncoder, error) {
	if cfg.Media.Mode != config.MediaMinio {
		return media.NewInline(), nil
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	return media.NewObject(storageClient), nil
}

func newTokenManager(cfg *config.Config) model.TokenManager {
	if cfg.Token.Format == config.TokenJWT {
		return token.NewJWT(cfg.Token.Secret)
	}
	return token.NewOpaque()
}
