package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"smartpay/internal/core"

	_ "modernc.org/sqlite"
)

var _ PaymentStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the collection in a payments table, one row per record,
// ordered by position. Save rewrites the table inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One writer at a time; whole-collection saves must not interleave
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := MigratePayments(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements PaymentStore
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, amount, due_date, paid FROM payments ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.Title, &p.Amount, &p.DueDate, &p.Paid); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// Save implements PaymentStore
func (s *SQLiteStore) Save(ctx context.Context, payments []core.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments`); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO payments (position, title, amount, due_date, paid) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range payments {
		if _, err := stmt.ExecContext(ctx, i, p.Title, p.Amount, p.DueDate, p.Paid); err != nil {
			return fmt.Errorf("insert payment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payments: %w", err)
	}

	slog.DebugContext(ctx, "Payments saved to SQLite", "count", len(payments))
	return nil
}
