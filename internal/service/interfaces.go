// Package service defines the interfaces between the CLI and the
// persistence layer.
package service

import (
	"context"

	"github.com/caixaescolar/caixa/internal/model"
)

// Storage is the contract for the per-tenant snapshot store. Each
// import replaces a tenant's canonical rows wholesale; the engine never
// mutates stored rows incrementally.
type Storage interface {
	// Snapshot operations
	ReplaceTransactions(ctx context.Context, tenant string, txs []model.Transaction) error
	GetTransactions(ctx context.Context, tenant string) ([]model.Transaction, error)
	ReplaceStudents(ctx context.Context, tenant string, students []model.Student) error
	GetStudents(ctx context.Context, tenant string) ([]model.Student, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
