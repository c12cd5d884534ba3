package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"MarketMind/internal/logger"

	_ "modernc.org/sqlite"
)

// SQLiteStore serves the catalog from a SQLite table, seeding it from
// another source on first open.
type SQLiteStore struct {
	db   *sql.DB
	seed Source
}

// OpenSQLite opens (or creates) the database and runs migrations. seed may
// be nil when the table is known to be populated.
func OpenSQLite(dbPath string, seed Source) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, seed: seed}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Get().Infof("sqlite catalog opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS tickers (
		position INTEGER PRIMARY KEY,
		symbol   TEXT NOT NULL UNIQUE,
		name     TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

func (s *SQLiteStore) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickers`).Scan(&n)
	return n, err
}

// Replace overwrites the table with tickers in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, tickers []Ticker) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tickers`); err != nil {
		return fmt.Errorf("clear tickers: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO tickers (position, symbol, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tickers {
		if _, err := stmt.ExecContext(ctx, i, t.Symbol, t.Name); err != nil {
			return fmt.Errorf("insert %s: %w", t.Symbol, err)
		}
	}
	return tx.Commit()
}

// Tickers returns the stored tickers by position, seeding an empty table
// first.
func (s *SQLiteStore) Tickers(ctx context.Context) ([]Ticker, error) {
	n, err := s.count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickers: %w", err)
	}
	if n == 0 && s.seed != nil {
		seed, err := s.seed.Tickers(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		if err := s.Replace(ctx, seed); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		logger.Get().Infof("sqlite catalog seeded with %d tickers", len(seed))
	}

	rows, err := s.db.QueryContext(ctx, `SELECT symbol, name FROM tickers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	var out []Ticker
	for rows.Next() {
		var t Ticker
		if err := rows.Scan(&t.Symbol, &t.Name); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
