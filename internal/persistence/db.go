// Package persistence provides SQLite-backed session storage so a shop
// daemon can resume its session across restarts.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hollyoak/plantshop/internal/shop"
)

// ErrNoSession is returned by LoadSession when the database holds no
// saved session yet.
var ErrNoSession = errors.New("no saved session")

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		player_hardiness REAL NOT NULL,
		cash REAL NOT NULL,
		visits INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS inventory (
		session_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		stock INTEGER NOT NULL,
		PRIMARY KEY (session_id, item_id)
	);

	CREATE TABLE IF NOT EXISTS sale_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		price REAL NOT NULL,
		success INTEGER NOT NULL,
		fit_score REAL NOT NULL,
		at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tx_log (
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		line TEXT NOT NULL,
		PRIMARY KEY (session_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_sale_events_session ON sale_events(session_id, at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SessionState is the persisted shape of a session.
type SessionState struct {
	ID              string
	Seed            int64
	PlayerHardiness float64
	Cash            float64
	Visits          int
	Draws           int
	Stock           map[string]int
	LogLines        []string
}

// SaveSession writes the full session state (replace semantics, one
// transaction). Sale events are appended separately as they happen.
func (db *DB) SaveSession(state *SessionState) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT INTO sessions (id, seed, player_hardiness, cash, visits, draws, created_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cash = excluded.cash, visits = excluded.visits, draws = excluded.draws, saved_at = excluded.saved_at`,
		state.ID, state.Seed, state.PlayerHardiness, state.Cash, state.Visits, state.Draws, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM inventory WHERE session_id = ?", state.ID); err != nil {
		return err
	}
	for itemID, stock := range state.Stock {
		if _, err := tx.Exec(
			"INSERT INTO inventory (session_id, item_id, stock) VALUES (?, ?, ?)",
			state.ID, itemID, stock,
		); err != nil {
			return fmt.Errorf("insert inventory %s: %w", itemID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM tx_log WHERE session_id = ?", state.ID); err != nil {
		return err
	}
	for i, line := range state.LogLines {
		if _, err := tx.Exec(
			"INSERT INTO tx_log (session_id, position, line) VALUES (?, ?, ?)",
			state.ID, i, line,
		); err != nil {
			return fmt.Errorf("insert log line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("session saved", "session", state.ID, "cash", state.Cash, "visits", state.Visits)
	return nil
}

// LoadSession reads the most recently saved session, or ErrNoSession.
func (db *DB) LoadSession() (*SessionState, error) {
	var row struct {
		ID              string  `db:"id"`
		Seed            int64   `db:"seed"`
		PlayerHardiness float64 `db:"player_hardiness"`
		Cash            float64 `db:"cash"`
		Visits          int     `db:"visits"`
		Draws           int     `db:"draws"`
	}
	err := db.conn.Get(&row,
		"SELECT id, seed, player_hardiness, cash, visits, draws FROM sessions ORDER BY saved_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	state := &SessionState{
		ID:              row.ID,
		Seed:            row.Seed,
		PlayerHardiness: row.PlayerHardiness,
		Cash:            row.Cash,
		Visits:          row.Visits,
		Draws:           row.Draws,
		Stock:           make(map[string]int),
	}

	rows, err := db.conn.Queryx("SELECT item_id, stock FROM inventory WHERE session_id = ?", state.ID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var itemID string
		var stock int
		if err := rows.Scan(&itemID, &stock); err != nil {
			return nil, err
		}
		state.Stock[itemID] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.conn.Select(&state.LogLines,
		"SELECT line FROM tx_log WHERE session_id = ? ORDER BY position", state.ID); err != nil {
		return nil, fmt.Errorf("load tx log: %w", err)
	}

	return state, nil
}

// SaveSaleEvent appends one resolved offer to the event history.
func (db *DB) SaveSaleEvent(sessionID string, ev shop.SaleEvent) error {
	success := 0
	if ev.Success {
		success = 1
	}
	_, err := db.conn.Exec(
		"INSERT INTO sale_events (id, session_id, item_id, price, success, fit_score, at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ev.ID, sessionID, ev.ItemID, ev.Price, success, ev.FitScore, ev.At.Format(time.RFC3339Nano),
	)
	return err
}

// RecentSales returns the latest events for a session, newest first.
func (db *DB) RecentSales(sessionID string, limit int) ([]shop.SaleEvent, error) {
	rows, err := db.conn.Queryx(
		"SELECT id, item_id, price, success, fit_score, at FROM sale_events WHERE session_id = ? ORDER BY at DESC LIMIT ?",
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []shop.SaleEvent
	for rows.Next() {
		var ev shop.SaleEvent
		var success int
		var at string
		if err := rows.Scan(&ev.ID, &ev.ItemID, &ev.Price, &success, &ev.FitScore, &at); err != nil {
			return nil, err
		}
		ev.Success = success == 1
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			ev.At = ts
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
