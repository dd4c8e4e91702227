package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. A database that cannot be migrated to it is a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: transaction snapshots",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					tenant TEXT NOT NULL,
					id TEXT NOT NULL,
					due_date TEXT,
					payment_date TEXT,
					student_id TEXT,
					description TEXT,
					responsible TEXT,
					category TEXT,
					payment_method TEXT,
					account TEXT,
					status TEXT,
					type TEXT,
					cost_kind TEXT,
					source TEXT,
					net_amount REAL NOT NULL DEFAULT 0,
					abs_amount REAL NOT NULL DEFAULT 0,
					gross_amount REAL NOT NULL DEFAULT 0,
					PRIMARY KEY (tenant, id)
				)`,
				`CREATE INDEX idx_transactions_tenant ON transactions(tenant)`,
				`CREATE INDEX idx_transactions_due ON transactions(tenant, due_date)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 1: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Student snapshots",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS students (
					tenant TEXT NOT NULL,
					id TEXT NOT NULL,
					name TEXT,
					match_name TEXT,
					responsible TEXT,
					phone TEXT,
					cpf TEXT,
					financial_cpf TEXT,
					scholarship TEXT,
					book TEXT,
					payment_day TEXT,
					contract_period TEXT,
					birth_date TEXT,
					enrollment_date TEXT,
					locked_date TEXT,
					dropped_date TEXT,
					evaded_date TEXT,
					completed_date TEXT,
					last_payment TEXT,
					next_due TEXT,
					contract_value REAL NOT NULL DEFAULT 0,
					current_value REAL NOT NULL DEFAULT 0,
					total_paid REAL NOT NULL DEFAULT 0,
					total_pending REAL NOT NULL DEFAULT 0,
					total_overdue REAL NOT NULL DEFAULT 0,
					status TEXT,
					currently_enrolled INTEGER NOT NULL DEFAULT 0,
					newly_enrolled INTEGER NOT NULL DEFAULT 0,
					completed INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (tenant, id)
				)`,
				`CREATE INDEX idx_students_tenant ON students(tenant)`,
				`CREATE INDEX idx_students_status ON students(tenant, status)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 2: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		slog.Info("Applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
