package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neurostream/intake/pkg/api"
	"github.com/neurostream/intake/pkg/clients/airtable"
	"github.com/neurostream/intake/pkg/clients/mailgun"
	"github.com/neurostream/intake/pkg/config"
	"github.com/neurostream/intake/pkg/logger"
	"github.com/neurostream/intake/pkg/models"
	"github.com/neurostream/intake/pkg/properties"
	"github.com/neurostream/intake/pkg/services"
	"github.com/neurostream/intake/pkg/sheet"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kind := cfg.Kind()
	variant, err := services.VariantFor(kind)
	if err != nil {
		return err
	}

	// Each deployment writes to one explicitly named table
	store, closeStore, err := openSheet(ctx, cfg, kind, zlog)
	if err != nil {
		return err
	}
	defer closeStore()

	var mailer mailgun.Client
	if cfg.Email.IsConfigured() {
		mailer, err = mailgun.NewClient(cfg.Email, zlog)
		if err != nil {
			return err
		}
	} else {
		zlog.Warn("Mailgun not configured, notifications disabled")
	}

	props := properties.Chain{properties.Env{}}
	if cfg.PropertiesDir != "" {
		props = properties.Chain{properties.Dir(cfg.PropertiesDir), properties.Env{}}
	}

	intake := services.NewIntakeService(variant, store, mailer, props, zlog)

	gin.SetMode(cfg.GinMode)
	router := api.NewRouter(api.NewHandlers(intake, zlog), zlog, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("form", string(kind)),
			zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openSheet(ctx context.Context, cfg *config.Config, kind models.Kind, zlog *zap.Logger) (sheet.Sheet, func(), error) {
	header := models.Columns(kind)

	switch cfg.StoreBackend {
	case config.BackendAirtable:
		c := airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, cfg.Airtable.Table, header, zlog)
		return c, func() {}, nil
	case config.BackendSQLite:
		s, err := sheet.OpenSQLite(ctx, cfg.SQLitePath, sheet.TableName(kind), header)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}
