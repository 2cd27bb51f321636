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

type ProductRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, product *models.Product) (*models.Product, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PgProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PgProductRepository{db: db}
}

func (r *PgProductRepository) CreateTx(ctx context.Context, tx pgx.Tx, product *models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"

	var created models.Product
	err := tx.QueryRow(ctx, storage.CreateProductQuery,
		product.ID,
		product.Name,
		product.Description,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Description,
		&created.CreatedAt,
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

func (r *PgProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const op = "storage.GetProductByID"

	var product models.Product
	err := r.db.QueryRow(ctx, storage.GetProductByIDQuery, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &product, nil
}

func (r *PgProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "storage.DeleteProduct"

	tag, err := r.db.Exec(ctx, storage.DeleteProductQuery, id)
	if err != nil {
		var pgErr *pgconn.PgError
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
