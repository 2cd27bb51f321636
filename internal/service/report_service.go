package service

import (
	"context"
	"fmt"
	"gw-transaction-ledger/internal/exchange"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Report interface {
	CustomerSummary(ctx context.Context, customerID uuid.UUID, rng models.DateRange) (*models.CustomerSummary, error)
	ProductSummary(ctx context.Context, productID uuid.UUID, rng models.DateRange) (*models.ProductSummary, error)
}

type ReportService struct {
	transactionRepo postgres.TransactionRepository
	customerRepo    postgres.CustomerRepository
	productRepo     postgres.ProductRepository
}

func NewReportService(
	transactionRepo postgres.TransactionRepository,
	customerRepo postgres.CustomerRepository,
	productRepo postgres.ProductRepository,
) Report {
	return &ReportService{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
	}
}

// CustomerSummary считает итоги по покупателю за период. Конвертация
// в PLN выполняется для каждой транзакции, затем суммы складываются.
func (s *ReportService) CustomerSummary(ctx context.Context, customerID uuid.UUID, rng models.DateRange) (*models.CustomerSummary, error) {
	const op = "service.CustomerSummary"

	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions, err := s.transactionRepo.ListByCustomer(ctx, customerID, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &models.CustomerSummary{CustomerID: customerID.String()}

	// Пустой период - явная ветка: нули и null вместо ошибки
	if len(transactions) == 0 {
		return summary, nil
	}

	totalSpent := decimal.Zero
	uniqueProducts := make(map[uuid.UUID]struct{})
	var lastTransaction time.Time

	for _, t := range transactions {
		totalSpent = totalSpent.Add(exchange.ToPLN(t.Currency, t.Amount))
		uniqueProducts[t.ProductID] = struct{}{}
		if t.Timestamp.After(lastTransaction) {
			lastTransaction = t.Timestamp
		}
	}

	summary.TotalSpentPLN = totalSpent.Round(2).InexactFloat64()
	summary.UniqueProducts = len(uniqueProducts)
	summary.LastTransactionDate = &lastTransaction
	return summary, nil
}

// ProductSummary - симметричная сводка по товару
func (s *ReportService) ProductSummary(ctx context.Context, productID uuid.UUID, rng models.DateRange) (*models.ProductSummary, error) {
	const op = "service.ProductSummary"

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions, err := s.transactionRepo.ListByProduct(ctx, productID, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &models.ProductSummary{ProductID: productID.String()}

	if len(transactions) == 0 {
		return summary, nil
	}

	totalRevenue := decimal.Zero
	uniqueCustomers := make(map[uuid.UUID]struct{})

	for _, t := range transactions {
		totalRevenue = totalRevenue.Add(exchange.ToPLN(t.Currency, t.Amount))
		uniqueCustomers[t.CustomerID] = struct{}{}
		summary.TotalQuantitySold += t.Quantity
	}

	summary.TotalRevenuePLN = totalRevenue.Round(2).InexactFloat64()
	summary.UniqueCustomers = len(uniqueCustomers)
	return summary, nil
}
