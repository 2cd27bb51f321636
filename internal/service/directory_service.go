package service

import (
	"context"
	"fmt"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Directory - справочники покупателей и товаров. Транзакции ссылаются
// на эти записи, поэтому удаление используемой записи отклоняется.
type Directory interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type DirectoryService struct {
	customerRepo postgres.CustomerRepository
	productRepo  postgres.ProductRepository
	txManager    TxManager
}

func NewDirectoryService(
	customerRepo postgres.CustomerRepository,
	productRepo postgres.ProductRepository,
	txManager TxManager,
) Directory {
	return &DirectoryService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		txManager:    txManager,
	}
}

func (s *DirectoryService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.Customer, error) {
	const op = "service.CreateCustomer"

	if req.Name == "" || req.Email == "" {
		return nil, custom_err.ErrInvalidInput
	}

	customer := &models.Customer{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		IsActive:    true,
	}

	var created *models.Customer
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		created, txErr = s.customerRepo.CreateTx(ctx, tx, customer)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *DirectoryService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	const op = "service.GetCustomer"

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

func (s *DirectoryService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	const op = "service.DeleteCustomer"

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *DirectoryService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	const op = "service.CreateProduct"

	if req.Name == "" {
		return nil, custom_err.ErrInvalidInput
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	var created *models.Product
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		created, txErr = s.productRepo.CreateTx(ctx, tx, product)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *DirectoryService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const op = "service.GetProduct"

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *DirectoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "service.DeleteProduct"

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
