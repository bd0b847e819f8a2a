// Package numerator implements document auto-numbering on top of Postgres.
// Each sequence lives in sys_sequences and is advanced with a single
// atomic UPSERT, so concurrent writers never observe the same counter value.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	core "stockbook/internal/core/numerator"
	"stockbook/internal/infrastructure/storage/postgres"
)

// RowQuerier is the minimal connection surface the numerator needs.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check that Service implements the domain contract.
var _ core.Generator = (*Service)(nil)

// Service provides document numbering functionality.
// Connections are resolved through the transaction manager, so numbers
// issued inside a document transaction roll back together with the document.
type Service struct {
	txm    *postgres.TxManager
	static RowQuerier
}

// New creates a numerator service resolving connections through txm.
func New(txm *postgres.TxManager) *Service {
	return &Service{txm: txm}
}

// NewWithQuerier creates a numerator service with a static connection.
// Use for single-connection scenarios and testing.
func NewWithQuerier(q RowQuerier) *Service {
	return &Service{static: q}
}

// getQuerier returns the connection for the current context.
func (s *Service) getQuerier(ctx context.Context) RowQuerier {
	if s.txm != nil {
		return s.txm.GetQuerier(ctx)
	}
	return s.static
}

// NextNumber generates the next document number.
// Pattern for year-scoped sequences: PREFIX-YEAR-XXXX (e.g. STK-2024-0001).
// Global sequences omit year and separator (e.g. PAY001).
func (s *Service) NextNumber(ctx context.Context, cfg core.Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := cfg.Key(period)
	querier := s.getQuerier(ctx)

	var num int64
	err := querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return cfg.Format(period, num), nil
}

// SetNextNumber sets the counter value for a sequence (for migration purposes).
// The next issued number will be value+1.
func (s *Service) SetNextNumber(ctx context.Context, cfg core.Config, period time.Time, value int64) error {
	key := cfg.Key(period)
	querier := s.getQuerier(ctx)

	var result int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set number for %s: %w", key, err)
	}
	return nil
}
