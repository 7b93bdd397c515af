package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/AdamBeresnev/swiss-chess/internal/config"
	"github.com/AdamBeresnev/swiss-chess/internal/db"
	"github.com/AdamBeresnev/swiss-chess/internal/metrics"
	"github.com/AdamBeresnev/swiss-chess/internal/service"
	"github.com/AdamBeresnev/swiss-chess/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatal("Invalid log level:", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime

	var docs store.DocumentStore
	switch cfg.StoreDriver {
	case config.DriverBolt:
		boltStore, err := store.NewBoltStore(cfg.StorePath)
		if err != nil {
			log.Fatal("Failed to open store:", err)
		}
		docs = boltStore
	default:
		database, err := db.InitDB(cfg.StorePath)
		if err != nil {
			log.Fatal("Failed to connect to DB:", err)
		}
		defer database.Close()

		if err := db.RunMigrations(database.DB); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		docs = store.NewSQLStore(database)
		sessionManager.Store = sqlite3store.New(database.DB)
	}
	defer docs.Close()

	metricsManager := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSaveBuckets(cfg.MetricsSaveBuckets),
	)
	manager := service.NewManager(store.NewTournamentStore(docs), metricsManager)
	if err := manager.Load(context.Background()); err != nil {
		log.Println("Starting with an empty registry:", err)
	}

	router := newRouter(manager, sessionManager, metricsManager)

	log.Printf("Server starting on %s (%s store at %s)", cfg.Addr, cfg.StoreDriver, cfg.StorePath)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
