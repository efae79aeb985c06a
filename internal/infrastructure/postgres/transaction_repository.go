package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"budget/internal/domain/transaction"
)

const transactionColumns = `id, user_id, date, amount, description, category, type, image, created_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, date, amount, description, category, type, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Date, params.Amount,
		params.Description, params.Category, params.Kind, params.Image,
	)

	tx, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string, userID int64) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil // Absent or owned by someone else
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, error) {
	query, args := buildListQuery(userID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*transaction.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// buildListQuery composes the WHERE clause from the optional filter
// criteria. The owner condition is always present and always first; the
// remaining criteria are conjoined with AND. Search matches description
// or category case-insensitively.
func buildListQuery(userID int64, filter transaction.Filter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(description ILIKE $%d OR category ILIKE $%d)", len(args), len(args)))
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date DESC, created_at DESC
	`

	return query, args
}

func (r *TransactionRepository) Summarize(ctx context.Context, userID int64) (*transaction.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
	`

	var summary transaction.Summary
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&summary.Income, &summary.Expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	summary.Balance = summary.Income - summary.Expenses
	return &summary, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, userID int64, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET date = COALESCE($1, date),
		    amount = COALESCE($2, amount),
		    description = COALESCE($3, description),
		    category = COALESCE($4, category),
		    type = COALESCE($5, type),
		    image = COALESCE($6, image)
		WHERE id = $7 AND user_id = $8
		RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.Date, params.Amount, params.Description, params.Category,
		params.Kind, params.Image, id, userID,
	)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string, userID int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	var image sql.NullString

	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Amount,
		&tx.Description, &tx.Category, &tx.Kind, &image, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		tx.Image = &image.String
	}

	return &tx, nil
}
