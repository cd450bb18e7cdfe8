package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saylekxd/nightApp/internal/model"
	"github.com/saylekxd/nightApp/pkg/database"
)

// TransactionRepository provides data access for the point ledger using pgx.
type TransactionRepository struct {
	db database.TxQuerier
}

// NewTransactionRepository creates a new TransactionRepository with the given pool.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

// NewTransactionRepositoryWithDB creates a TransactionRepository with a
// custom querier. This is primarily used for testing.
func NewTransactionRepositoryWithDB(db database.TxQuerier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Insert writes a ledger entry within a transaction. Always called in the
// same database transaction as the balance change it describes.
func (r *TransactionRepository) Insert(ctx context.Context, tx database.TxQuerier, t *model.Transaction) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO point_transactions (id, member_id, amount, type, description)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.MemberID, t.Amount, t.Type, t.Description)
	if err != nil {
		return fmt.Errorf("insert point transaction: %w", err)
	}
	return nil
}

// ListByMember returns the member's ledger, newest first.
// On success, returns an empty slice (not nil) when no entries exist.
func (r *TransactionRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, member_id, amount, type, description, created_at
		 FROM point_transactions WHERE member_id = $1 ORDER BY created_at DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for member %s: %w", memberID, err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.MemberID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions rows: %w", err)
	}
	return transactions, nil
}
