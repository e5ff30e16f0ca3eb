package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/catalog/store"
	"github.com/Simplici0/prazis-quote/internal/config"
	"github.com/Simplici0/prazis-quote/internal/db"
	"github.com/Simplici0/prazis-quote/internal/logger"
	"github.com/Simplici0/prazis-quote/internal/migrations"
	"github.com/Simplici0/prazis-quote/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to load catalog", "error", err)
	}

	srv := newServer(cat, log, cfg.ProfitMargin)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", httpServer.Addr, "env", cfg.Env, "profit_margin", cfg.ProfitMargin)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", "error", err)
	}
}

// loadCatalog reads the catalog from CATALOG_PATH when set, otherwise from
// the SQLite database, migrating and seeding it first in development.
func loadCatalog(ctx context.Context, cfg config.Config, log *logger.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		cat, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		log.Info("catalog loaded", "source", cfg.CatalogPath, "materials", cat.MaterialIDs())
		return cat, nil
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database); err != nil {
			return nil, err
		}
		stats, err := seed.Run(ctx, database, catalog.DefaultSnapshot())
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Debug("catalog seed finished", "inserts", stats.Inserts)
	}

	cat, err := store.Load(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load catalog from database: %w", err)
	}
	version, err := migrations.Version(ctx, database)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded", "source", cfg.DBPath, "schema_version", version, "materials", cat.MaterialIDs())
	return cat, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/catalog", s.handleCatalog)
	r.Post("/estimates", s.handleEstimate)
	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", s.handleQuote)
		r.Post("/text", s.handleQuoteText)
		r.Post("/png", s.handleQuotePNG)
	})
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
