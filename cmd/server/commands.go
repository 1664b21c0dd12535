package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"collection/internal/api"
	"collection/internal/blob"
	"collection/internal/catalog"
	"collection/internal/config"
	"collection/internal/logger"
	"collection/internal/metrics"
	"collection/internal/pg"
	"collection/internal/reference"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply DDL and reference seed, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return migrate(cmd.Context(), db, cfg, log)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	// 1. Postgres
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected", "db_url", cfg.DBURL)

	// 2. Схема и справочники
	if cfg.AutoMigrate {
		if err := migrate(ctx, db, cfg, log); err != nil {
			return err
		}
	}

	// 3. Хранилище логотипов
	store, err := openBlob(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("blob store ready", "driver", cfg.BlobDriver)

	// 4. HTTP
	s := api.NewServer(db, log, metrics.New(), store)
	s.ReferenceDir = cfg.ReferenceDir
	s.CORSOrigins = cfg.CORSOrigins

	addr := ":" + cfg.Port
	log.Info("starting catalog API", "addr", addr)
	if err := api.RunServer(ctx, addr, api.NewRouter(s)); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info("catalog API stopped")
	return nil
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DBURL == "" {
		return nil, errors.New("db_url is required (--db or CATALOG_DB_URL)")
	}
	return pg.Open(ctx, cfg.DBURL)
}

func migrate(ctx context.Context, db *sql.DB, cfg config.Config, log *logger.Logger) error {
	if err := pg.ApplyDDL(ctx, db, catalog.DDL(catalog.Hierarchies()...), log); err != nil {
		return err
	}
	seed, err := reference.Apply(ctx, catalog.NewReference(catalog.Deps{DB: db, Log: log}), cfg.ReferenceDir)
	if err != nil {
		return fmt.Errorf("reference seed: %w", err)
	}
	log.Info("migration complete", "types", len(seed.Types), "categories", len(seed.Categories))
	return nil
}

func openBlob(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobDriver {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		return blob.NewLocalStore(cfg.FilesRoot)
	}
}
