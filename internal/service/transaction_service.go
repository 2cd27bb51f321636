package service

import (
	"context"
	"fmt"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage/postgres"

	"github.com/google/uuid"
)

type Transactions interface {
	List(ctx context.Context, filter models.TransactionListFilter, page int64) (*models.TransactionPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionProjection, error)
}

type TransactionService struct {
	repo postgres.TransactionRepository
}

func NewTransactionService(repo postgres.TransactionRepository) Transactions {
	return &TransactionService{repo: repo}
}

// List возвращает страницу транзакций по убыванию времени.
// Страница за пределами диапазона - not found, как и пагинатор оригинала.
func (s *TransactionService) List(ctx context.Context, filter models.TransactionListFilter, page int64) (*models.TransactionPage, error) {
	const op = "service.ListTransactions"

	if page < 1 {
		return nil, custom_err.ErrInvalidInput
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	numPages := (count + models.PageSize - 1) / models.PageSize
	if numPages == 0 {
		numPages = 1
	}
	if page > numPages {
		return nil, custom_err.ErrNotFound
	}

	transactions, err := s.repo.List(ctx, filter, models.PageSize, uint64(page-1)*models.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := make([]models.TransactionProjection, 0, len(transactions))
	for i := range transactions {
		results = append(results, transactions[i].Project())
	}

	return &models.TransactionPage{
		Count:       count,
		NumPages:    numPages,
		CurrentPage: page,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
		Results:     results,
	}, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*models.TransactionProjection, error) {
	const op = "service.GetTransactionByID"

	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	projection := transaction.Project()
	return &projection, nil
}
