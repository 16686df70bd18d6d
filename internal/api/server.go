// Package api serves the shop session over HTTP.
// GET endpoints are public (read-only observation of the shop).
// POST /offer resolves sales; admin endpoints require a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hollyoak/plantshop/internal/customer"
	"github.com/hollyoak/plantshop/internal/persistence"
	"github.com/hollyoak/plantshop/internal/scoring"
	"github.com/hollyoak/plantshop/internal/shop"
)

// Server serves one shop session over HTTP. The engine itself carries no
// locking, so the server serializes all session access through mu — at most
// one in-flight offer at a time.
type Server struct {
	Session   *shop.Session
	Customers *customer.Generator
	DB        *persistence.DB
	Seed      int64
	Port      int
	AdminKey  string // Bearer token for admin POST endpoints. Empty = disabled.

	mu sync.Mutex
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	offerLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (read-only observation).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/api/v1/stock", s.handleStock)
	mux.HandleFunc("/api/v1/stock/", s.handleStockDetail)
	mux.HandleFunc("/api/v1/log", s.handleLog)
	mux.HandleFunc("/api/v1/sales", s.handleSales)

	// Gameplay endpoints.
	mux.HandleFunc("/api/v1/customer", s.handleCustomer)
	mux.HandleFunc("/api/v1/matches", s.handleMatches)
	mux.HandleFunc("/api/v1/offer", RateLimitMiddleware(offerLimiter, s.handleOffer))

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	if s.AdminKey == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := 0
	for _, n := range s.Session.Ledger().Snapshot() {
		remaining += n
	}

	writeJSON(w, map[string]any{
		"session":          s.Session.ID,
		"cash":             s.Session.CashBalance(),
		"catalog_items":    len(s.Session.Catalog),
		"stock_remaining":  remaining,
		"log_entries":      len(s.Session.RecentLog()),
		"visits":           s.Customers.Visits(),
		"player_hardiness": s.Session.PlayerHardiness,
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Catalog)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snapshot := s.Session.Ledger().Snapshot()
	s.mu.Unlock()
	writeJSON(w, snapshot)
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/stock/")
	if id == "" {
		http.Error(w, "missing item id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	stock := s.Session.Ledger().StockOf(id)
	s.mu.Unlock()
	writeJSON(w, map[string]any{"item_id": id, "stock": stock})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := s.Session.RecentLog()
	s.mu.Unlock()
	writeJSON(w, entries)
}

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []shop.SaleEvent{})
		return
	}
	events, err := s.DB.RecentSales(s.Session.ID, 50)
	if err != nil {
		slog.Error("load sales", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []shop.SaleEvent{}
	}
	writeJSON(w, events)
}

// handleCustomer advances the customer generator one visit and returns the
// new customer's need alongside the ranked candidates for it.
func (s *Server) handleCustomer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	need := s.Customers.Next()
	candidates := s.Session.Matches(&need, scoring.DefaultTopK)
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"need":       need,
		"candidates": candidates,
	})
}

// handleMatches ranks the catalog against a caller-supplied need profile.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Need customer.NeedProfile `json:"need"`
		K    int                  `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	candidates := s.Session.Matches(&req.Need, req.K)
	s.mu.Unlock()

	writeJSON(w, candidates)
}

// handleOffer resolves a probabilistic sale. The engine's offer contract
// assumes the caller never offers a depleted item, so the stock gate lives
// here at the boundary.
func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ItemID   string   `json:"item_id"`
		FitScore float64  `json:"fit_score"`
		Price    *float64 `json:"price,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.FitScore < 0 || req.FitScore > 1 {
		http.Error(w, "fit_score must be in [0,1]", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.Session.Item(req.ItemID)
	if item == nil {
		http.Error(w, "unknown item", http.StatusNotFound)
		return
	}
	if s.Session.Ledger().StockOf(item.ID) == 0 {
		http.Error(w, "item out of stock", http.StatusConflict)
		return
	}

	var event shop.SaleEvent
	if req.Price != nil {
		event = s.Session.OfferAt(item, req.FitScore, *req.Price)
	} else {
		event = s.Session.Offer(item, req.FitScore)
	}

	if s.DB != nil {
		if err := s.DB.SaveSaleEvent(s.Session.ID, event); err != nil {
			slog.Error("save sale event", "error", err)
		}
		if err := s.DB.SaveSession(s.snapshotState()); err != nil {
			slog.Error("save session", "error", err)
		}
	}

	writeJSON(w, map[string]any{
		"event": event,
		"stock": s.Session.Ledger().StockOf(item.ID),
		"cash":  s.Session.CashBalance(),
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	s.mu.Lock()
	state := s.snapshotState()
	s.mu.Unlock()

	if err := s.DB.SaveSession(state); err != nil {
		slog.Error("manual save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"saved": true, "session": state.ID})
}

// snapshotState captures the session for persistence. Callers hold mu.
func (s *Server) snapshotState() *persistence.SessionState {
	return &persistence.SessionState{
		ID:              s.Session.ID,
		Seed:            s.Seed,
		PlayerHardiness: s.Session.PlayerHardiness,
		Cash:            s.Session.CashBalance(),
		Visits:          s.Customers.Visits(),
		Draws:           s.Session.Draws(),
		Stock:           s.Session.Ledger().Snapshot(),
		LogLines:        s.Session.RecentLog(),
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of additional allowed origins;
// localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
