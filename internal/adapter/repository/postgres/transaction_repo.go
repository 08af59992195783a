package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const (
	transactionColumns = `id, user_id, type, amount, currency, category, note, occurred_at, created_at`

	insertTransactionQuery = `
		INSERT INTO transactions (id, user_id, type, amount, currency, category, note, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	`
	getTransactionQuery = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	deleteTransactionQuery = `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	listTransactionsQuery = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	listTransactionsInRangeQuery = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at
	`
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, insertTransactionQuery,
		tx.ID,
		tx.UserID,
		string(tx.Type),
		tx.Amount,
		tx.Currency,
		tx.Category,
		tx.Note,
		tx.OccurredAt,
		nullTime(tx.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction owned by userID
func (r *transactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, getTransactionQuery, id, userID)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return tx, nil
}

// Delete removes a transaction owned by userID
func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteTransactionQuery, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// List retrieves a paginated list of a user's transactions, newest first
func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, listTransactionsQuery, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// ListInRange retrieves a user's transactions with from <= occurred_at <= to
func (r *transactionRepository) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, listTransactionsInRangeQuery, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions in range: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var txType string

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&txType,
		&tx.Amount,
		&tx.Currency,
		&tx.Category,
		&tx.Note,
		&tx.OccurredAt,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = domain.TransactionType(txType)

	return &tx, nil
}
