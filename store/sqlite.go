package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const navSchema = `CREATE TABLE IF NOT EXISTS nav_history (
	isin   TEXT NOT NULL,
	date   TEXT NOT NULL,
	close  REAL NOT NULL,
	open   REAL,
	high   REAL,
	low    REAL,
	change TEXT,
	PRIMARY KEY (isin, date)
)`

// SQLiteNavStore keeps every NAV history in a single SQLite table.
type SQLiteNavStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string, log zerolog.Logger) (*SQLiteNavStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(navSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteNavStore{db: db, log: log.With().Str("component", "nav_sqlite").Logger()}, nil
}

// Close closes the database.
func (s *SQLiteNavStore) Close() error { return s.db.Close() }

func (s *SQLiteNavStore) History(isin string) ([]fundfolio.PriceRow, error) {
	rows, err := s.db.Query(`SELECT date, close, open, high, low, change FROM nav_history WHERE isin = ? ORDER BY date`, isin)
	if err != nil {
		return nil, fmt.Errorf("failed to query NAV history of %s: %w", isin, err)
	}
	defer rows.Close()

	var res []fundfolio.PriceRow
	for rows.Next() {
		var (
			day             string
			open, high, low sql.NullFloat64
			change          sql.NullString
			r               fundfolio.PriceRow
		)
		if err := rows.Scan(&day, &r.Close, &open, &high, &low, &change); err != nil {
			return nil, err
		}
		if r.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("invalid date %q in NAV history of %s: %w", day, isin, err)
		}
		r.Open, r.High, r.Low, r.ChangePct = open.Float64, high.Float64, low.Float64, change.String
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *SQLiteNavStore) Merge(isin string, rows []fundfolio.PriceRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO nav_history (isin, date, close, open, high, low, change)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (isin, date) DO UPDATE SET
			close = excluded.close, open = excluded.open, high = excluded.high,
			low = excluded.low, change = excluded.change`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.Exec(isin, r.Date.String(), r.Close, r.Open, r.High, r.Low, r.ChangePct); err != nil {
			return fmt.Errorf("failed to store NAV of %s on %s: %w", isin, r.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Str("isin", isin).Int("rows", len(rows)).Msg("NAV history merged")
	return nil
}

func (s *SQLiteNavStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT isin FROM nav_history ORDER BY isin`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var isin string
		if err := rows.Scan(&isin); err != nil {
			return nil, err
		}
		res = append(res, isin)
	}
	return res, rows.Err()
}
