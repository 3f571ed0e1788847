// Package bootstrap builds the long-lived dependencies and wires them into
// the HTTP router. Connection pools and the search index are created once
// here and passed down explicitly.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"dms-backend/internal/documents"
	"dms-backend/internal/extract"
	"dms-backend/internal/extract/tesseract"
	"dms-backend/internal/search"
	"dms-backend/internal/services/health"
	"dms-backend/internal/shared/config"
	"dms-backend/internal/shared/server"
	"dms-backend/internal/shared/storage/db"
	"dms-backend/internal/shared/storage/object"
	localstore "dms-backend/internal/shared/storage/object/local"
	s3store "dms-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Blobs  object.BlobStore
	Index  *search.Index

	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
	HealthService    *health.Service
}

// Build prepares shared dependencies and wires routes. Startup provisioning
// (migrations, bucket creation, index mapping) happens here and is
// idempotent.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	idx, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	var repo documents.Repo
	if sqlDB != nil {
		repo = &documents.PGRepo{DB: sqlDB}
	} else {
		repo = documents.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Blobs:     blobs,
		Repo:      repo,
		Index:     idx,
		Extractor: extract.NewDispatcher(tesseract.NewEngine(cfg.OCRLanguage)),
		Timeout:   cfg.BackendTimeout,
	}

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Blobs:            blobs,
		Index:            idx,
		DocumentsRepo:    repo,
		DocumentsService: docSvc,
		DocumentsHandler: documents.NewHandler(docSvc, cfg.MaxUploadBytes),
		HealthService:    health.NewService(sqlDB, idx, blobs, cfg.BackendTimeout),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		DocumentHandler: app.DocumentsHandler,
		Health:          app.HealthService,
	})

	return app, nil
}

// Close releases the long-lived resources in reverse construction order.
func (a *App) Close() {
	if a.Index != nil {
		if err := a.Index.Close(); err != nil {
			log.Printf("bootstrap: close index: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("bootstrap: close db: %v", err)
		}
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.Env == "dev" {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildBlobStore(ctx context.Context, cfg config.Config) (object.BlobStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, s3store.Options{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cfg.S3Bucket, err)
		}
		return store, nil
	default:
		store := localstore.New(cfg.LocalStoreDir)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("prepare local store dir %s: %w", cfg.LocalStoreDir, err)
		}
		return store, nil
	}
}

func buildIndex(cfg config.Config) (*search.Index, error) {
	if strings.TrimSpace(cfg.SearchIndexPath) == "" {
		return search.OpenMemory()
	}
	idx, err := search.Open(cfg.SearchIndexPath)
	if err != nil {
		return nil, fmt.Errorf("open search index %s: %w", cfg.SearchIndexPath, err)
	}
	return idx, nil
}
