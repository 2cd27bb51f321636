package postgres

import (
	"context"
	"errors"
	"fmt"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, transaction *models.Transaction) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionListFilter, limit, offset uint64) ([]models.Transaction, error)
	Count(ctx context.Context, filter models.TransactionListFilter) (int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, rng models.DateRange) ([]models.Transaction, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, rng models.DateRange) ([]models.Transaction, error)
}

type PgTransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &PgTransactionRepository{db: db}
}

const transactionColumns = "transaction_id, timestamp, amount, currency, customer_id, product_id, quantity, created_at"

func (r *PgTransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, transaction *models.Transaction) error {
	const op = "storage.CreateTransaction"

	_, err := tx.Exec(ctx, storage.CreateTransactionQuery,
		transaction.TransactionID,
		transaction.Timestamp,
		transaction.Amount,
		transaction.Currency,
		transaction.CustomerID,
		transaction.ProductID,
		transaction.Quantity,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return custom_err.ErrAlreadyExists
			case "23503":
				return custom_err.ErrNotFound
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	const op = "storage.GetTransactionByID"

	var t models.Transaction
	err := r.db.QueryRow(ctx, storage.GetTransactionByIDQuery, id).Scan(
		&t.TransactionID,
		&t.Timestamp,
		&t.Amount,
		&t.Currency,
		&t.CustomerID,
		&t.ProductID,
		&t.Quantity,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

func (r *PgTransactionRepository) List(ctx context.Context, filter models.TransactionListFilter, limit, offset uint64) ([]models.Transaction, error) {
	const op = "storage.ListTransactions"

	builder := squirrel.Select(transactionColumns).
		From("transactions").
		OrderBy("timestamp DESC").
		Limit(limit).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)
	builder = applyListFilter(builder, filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.queryTransactions(ctx, op, sql, args)
}

func (r *PgTransactionRepository) Count(ctx context.Context, filter models.TransactionListFilter) (int64, error) {
	const op = "storage.CountTransactions"

	builder := squirrel.Select("COUNT(*)").
		From("transactions").
		PlaceholderFormat(squirrel.Dollar)
	builder = applyListFilter(builder, filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (r *PgTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, rng models.DateRange) ([]models.Transaction, error) {
	const op = "storage.ListTransactionsByCustomer"
	return r.listByRef(ctx, op, squirrel.Eq{"customer_id": customerID}, rng)
}

func (r *PgTransactionRepository) ListByProduct(ctx context.Context, productID uuid.UUID, rng models.DateRange) ([]models.Transaction, error) {
	const op = "storage.ListTransactionsByProduct"
	return r.listByRef(ctx, op, squirrel.Eq{"product_id": productID}, rng)
}

func (r *PgTransactionRepository) listByRef(ctx context.Context, op string, ref squirrel.Eq, rng models.DateRange) ([]models.Transaction, error) {
	builder := squirrel.Select(transactionColumns).
		From("transactions").
		Where(ref).
		PlaceholderFormat(squirrel.Dollar)

	// Границы периода включительные и сравниваются по дате без времени
	if rng.From != nil {
		builder = builder.Where(squirrel.Expr("timestamp::date >= ?", *rng.From))
	}
	if rng.To != nil {
		builder = builder.Where(squirrel.Expr("timestamp::date <= ?", *rng.To))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.queryTransactions(ctx, op, sql, args)
}

func (r *PgTransactionRepository) queryTransactions(ctx context.Context, op, sql string, args []interface{}) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.Timestamp,
			&t.Amount,
			&t.Currency,
			&t.CustomerID,
			&t.ProductID,
			&t.Quantity,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func applyListFilter(builder squirrel.SelectBuilder, filter models.TransactionListFilter) squirrel.SelectBuilder {
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.ProductID != nil {
		builder = builder.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	return builder
}
