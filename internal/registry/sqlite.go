// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/plagia/pkg/types"
)

// SQLiteRegistrar keeps issued codes in a local SQLite database.
type SQLiteRegistrar struct {
	db             *sql.DB
	maxFieldLength int
	now            func() time.Time
}

// OpenSQLite opens or creates the registration database at cfg.DBPath.
func OpenSQLite(cfg types.RegistrationConfig) (*SQLiteRegistrar, error) {
	path := cfg.DBPath
	if path == "" {
		path = types.DefaultConfig().Registration.DBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteRegistrar{db: db, maxFieldLength: cfg.MaxFieldLength, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteRegistrar) Close() error {
	return s.db.Close()
}

func (s *SQLiteRegistrar) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS registrations (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Register inserts the record. Re-registering an existing code replaces
// its requester details.
func (s *SQLiteRegistrar) Register(ctx context.Context, rec types.VerificationRecord) error {
	rec = Sanitize(rec, s.maxFieldLength)
	if rec.Code == "" {
		return wrap("inserting record", fmt.Errorf("empty code"))
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO registrations (code, name, email, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		strings.ToUpper(rec.Code), rec.Name, rec.Email, rec.Date, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return wrap("inserting record", err)
	}
	return nil
}

// Lookup reports whether code is present.
func (s *SQLiteRegistrar) Lookup(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM registrations WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(&n)
	if err != nil {
		return false, wrap("querying code", err)
	}
	return n > 0, nil
}

// Get returns the stored record for code.
func (s *SQLiteRegistrar) Get(ctx context.Context, code string) (types.VerificationRecord, bool, error) {
	var rec types.VerificationRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, email, date FROM registrations WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(&rec.Code, &rec.Name, &rec.Email, &rec.Date)
	if err == sql.ErrNoRows {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, wrap("querying record", err)
	}
	return rec, true, nil
}
