// Command shopd runs the plant-shop need-fit and transaction engine as a
// small daemon: it loads the catalog, restores or creates a session, and
// serves the shop over HTTP.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/hollyoak/plantshop/internal/api"
	"github.com/hollyoak/plantshop/internal/catalog"
	"github.com/hollyoak/plantshop/internal/customer"
	"github.com/hollyoak/plantshop/internal/entropy"
	"github.com/hollyoak/plantshop/internal/persistence"
	"github.com/hollyoak/plantshop/internal/scoring"
	"github.com/hollyoak/plantshop/internal/shop"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Hollyoak — plant shop engine")

	// ── Configuration ─────────────────────────────────────────────────
	seed := envInt64("SHOPD_SEED", 0)
	dbPath := envString("SHOPD_DB", "data/shop.db")
	apiPort := envInt("SHOPD_PORT", 8080)
	startingStock := envInt("SHOPD_STOCK", shop.DefaultStartingStock)
	playerHardiness := envFloat("SHOPD_HARDINESS", scoring.DefaultPlayerHardiness)
	catalogPath := envString("SHOPD_CATALOG", "")

	adminKey := os.Getenv("SHOPD_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("SHOPD_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	// ── Catalog ───────────────────────────────────────────────────────
	var items []catalog.Item
	if catalogPath != "" {
		var err error
		items, err = catalog.Load(catalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "path", catalogPath, "error", err)
			os.Exit(1)
		}
		slog.Info("catalog loaded", "path", catalogPath, "items", len(items))
	} else {
		items = catalog.Default()
		slog.Info("using embedded catalog", "items", len(items))
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Session: restore or create ────────────────────────────────────
	var session *shop.Session
	var customers *customer.Generator

	saved, err := db.LoadSession()
	if err != nil && !errors.Is(err, persistence.ErrNoSession) {
		slog.Warn("could not load saved session, starting fresh", "error", err)
	}
	switch {
	case err == nil && seed == 0:
		// Resume the saved session. The random stream restarts from the
		// session seed; only a fresh SHOPD_SEED forces a new session.
		session = shop.NewSession(items, startingStock, saved.PlayerHardiness, entropy.NewStream(saved.Seed))
		session.ID = saved.ID
		seed = saved.Seed
		for itemID, stock := range saved.Stock {
			session.Ledger().Restore(itemID, stock)
		}
		session.RestoreCash(saved.Cash)
		session.RestoreLog(saved.LogLines)
		session.RestoreDraws(saved.Draws)

		customers = customer.NewGenerator(saved.Seed)
		for i := 0; i < saved.Visits; i++ {
			customers.Next()
		}

		slog.Info("session restored",
			"session", session.ID,
			"seed", seed,
			"cash", saved.Cash,
			"visits", saved.Visits,
		)
	default:
		if seed == 0 {
			seed = entropy.RandomSeed()
		}
		session = shop.NewSession(items, startingStock, playerHardiness, entropy.NewStream(seed))
		customers = customer.NewGenerator(seed)

		slog.Info("new session",
			"session", session.ID,
			"seed", seed,
			"starting_stock", startingStock,
			"player_hardiness", session.PlayerHardiness,
		)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{
		Session:   session,
		Customers: customers,
		DB:        db,
		Seed:      seed,
		Port:      apiPort,
		AdminKey:  adminKey,
	}
	server.Start()

	fmt.Printf("\nThe shop is open: %d items on the shelves.\n", len(items))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Serving... (Ctrl+C to stop)")

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	if err := db.SaveSession(&persistence.SessionState{
		ID:              session.ID,
		Seed:            seed,
		PlayerHardiness: session.PlayerHardiness,
		Cash:            session.CashBalance(),
		Visits:          customers.Visits(),
		Draws:           session.Draws(),
		Stock:           session.Ledger().Snapshot(),
		LogLines:        session.RecentLog(),
	}); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Shop closed. Session saved.")
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid value", "key", key, "value", v)
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		slog.Warn("ignoring invalid value", "key", key, "value", v)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("ignoring invalid value", "key", key, "value", v)
	}
	return fallback
}
