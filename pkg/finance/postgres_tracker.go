package finance

import (
	"database/sql"
	"errors"
	"fmt"
)

// PostgresTracker implements finance.Tracker backed by PostgreSQL.
// Uses SELECT FOR UPDATE to provide row-level locking for atomic budget checks.
type PostgresTracker struct {
	db *sql.DB
}

// NewPostgresTracker creates a new PostgreSQL-backed budget tracker.
func NewPostgresTracker(db *sql.DB) *PostgresTracker {
	return &PostgresTracker{db: db}
}

// Check verifies that amount fits within the named budget.
func (t *PostgresTracker) Check(budgetID string, amount Money) (bool, error) {
	var currency string
	var limit, consumed int64

	err := t.db.QueryRow(
		`SELECT currency, budget_limit, consumed FROM finance_budgets WHERE id = $1`,
		budgetID,
	).Scan(&currency, &limit, &consumed)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, errors.New("budget not found")
		}
		return false, fmt.Errorf("budget check failed: %w", err)
	}
	if amount.Currency != currency {
		return false, errors.New("currency mismatch")
	}
	return consumed+amount.AmountMinor <= limit, nil
}

// Consume atomically deducts amount from the budget using SELECT FOR UPDATE,
// preventing a concurrent double-charge.
func (t *PostgresTracker) Consume(budgetID string, amount Money) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currency string
	var limit, consumed int64
	err = tx.QueryRow(
		`SELECT currency, budget_limit, consumed FROM finance_budgets WHERE id = $1 FOR UPDATE`,
		budgetID,
	).Scan(&currency, &limit, &consumed)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.New("budget not found")
		}
		return fmt.Errorf("budget lock failed: %w", err)
	}
	if amount.Currency != currency {
		return errors.New("currency mismatch")
	}
	if consumed+amount.AmountMinor > limit {
		return errors.New("budget exceeded")
	}

	_, err = tx.Exec(
		`UPDATE finance_budgets SET consumed = consumed + $1 WHERE id = $2`,
		amount.AmountMinor, budgetID,
	)
	if err != nil {
		return fmt.Errorf("budget update failed: %w", err)
	}

	return tx.Commit()
}
