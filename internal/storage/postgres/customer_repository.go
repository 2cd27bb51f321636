package postgres

import (
	"context"
	"errors"
	"fmt"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, customer *models.Customer) (*models.Customer, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PgCustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &PgCustomerRepository{db: db}
}

func (r *PgCustomerRepository) CreateTx(ctx context.Context, tx pgx.Tx, customer *models.Customer) (*models.Customer, error) {
	const op = "storage.CreateCustomer"

	var created models.Customer
	err := tx.QueryRow(ctx, storage.CreateCustomerQuery,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.PhoneNumber,
		customer.Address,
		customer.IsActive,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.PhoneNumber,
		&created.Address,
		&created.IsActive,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, custom_err.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

func (r *PgCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	const op = "storage.GetCustomerByID"

	var customer models.Customer
	err := r.db.QueryRow(ctx, storage.GetCustomerByIDQuery, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PhoneNumber,
		&customer.Address,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &customer, nil
}

func (r *PgCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "storage.DeleteCustomer"

	tag, err := r.db.Exec(ctx, storage.DeleteCustomerQuery, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// Покупатель с транзакциями не удаляется: FK запрещает каскад
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return custom_err.ErrEntityReferenced
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}
	return nil
}
