package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder journals refreshes and chat lines to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			version       INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			period        TEXT,
			bars          INTEGER,
			current_price REAL,
			last_ma       REAL,
			last_rsi      REAL,
			action        TEXT,
			rationale     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_symbol ON refresh_snapshots(symbol)`,

		`CREATE TABLE IF NOT EXISTS chat_messages (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			sender    TEXT NOT NULL,
			body      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_ts ON chat_messages(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(rec *RefreshRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_snapshots
		(timestamp, version, symbol, period, bars, current_price, last_ma, last_rsi, action, rationale)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.FetchedAt.Unix(), int64(rec.Version), rec.Symbol, rec.Period, rec.Bars,
		rec.Price, rec.LastMA, rec.LastRSI, rec.Action, rec.Rationale,
	)
	return err
}

func (r *SQLiteRecorder) RecordChat(rec *ChatRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chat_messages
		(id, timestamp, symbol, sender, body)
		VALUES (?,?,?,?,?)`,
		rec.ID, rec.Time.Unix(), rec.Symbol, rec.Sender, rec.Body,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
