package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
)

type reportFixture struct {
	service         Report
	transactionRepo *MockTransactionRepo
	customerRepo    *MockCustomerRepo
	productRepo     *MockProductRepo
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		transactionRepo: new(MockTransactionRepo),
		customerRepo:    new(MockCustomerRepo),
		productRepo:     new(MockProductRepo),
	}
	f.service = NewReportService(f.transactionRepo, f.customerRepo, f.productRepo)
	return f
}

func ledgerRow(customerID, productID uuid.UUID, amount string, currency models.Currency, quantity int64, ts time.Time) models.Transaction {
	return models.Transaction{
		TransactionID: uuid.New(),
		Timestamp:     ts,
		Amount:        decimal.RequireFromString(amount),
		Currency:      currency,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
	}
}

func TestCustomerSummary_ConvertsPerRowAndSums(t *testing.T) {
	f := newReportFixture()
	customerID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	f.customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	f.transactionRepo.On("ListByCustomer", mock.Anything, customerID, mock.Anything).Return([]models.Transaction{
		ledgerRow(customerID, productID, "100.00", models.CurrencyUSD, 2, now.Add(-2*time.Hour)),
		ledgerRow(customerID, productID, "100.00", models.CurrencyUSD, 2, now),
		ledgerRow(customerID, productID, "100.00", models.CurrencyUSD, 2, now.Add(-time.Hour)),
	}, nil)

	summary, err := f.service.CustomerSummary(context.Background(), customerID, models.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, customerID.String(), summary.CustomerID)
	// 3 x 100.00 USD по курсу 4.0
	assert.Equal(t, 1200.00, summary.TotalSpentPLN)
	assert.Equal(t, 1, summary.UniqueProducts)
	require.NotNil(t, summary.LastTransactionDate)
	assert.True(t, summary.LastTransactionDate.Equal(now))
}

func TestCustomerSummary_CountsDistinctProducts(t *testing.T) {
	f := newReportFixture()
	customerID := uuid.New()
	now := time.Now()

	f.customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	f.transactionRepo.On("ListByCustomer", mock.Anything, customerID, mock.Anything).Return([]models.Transaction{
		ledgerRow(customerID, uuid.New(), "10.00", models.CurrencyEUR, 1, now),
		ledgerRow(customerID, uuid.New(), "10.00", models.CurrencyUSD, 1, now),
	}, nil)

	summary, err := f.service.CustomerSummary(context.Background(), customerID, models.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.UniqueProducts)
	// 10 * 4.3 + 10 * 4.0
	assert.Equal(t, 83.00, summary.TotalSpentPLN)
}

func TestCustomerSummary_NoTransactionsYieldsZeroes(t *testing.T) {
	f := newReportFixture()
	customerID := uuid.New()

	f.customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	f.transactionRepo.On("ListByCustomer", mock.Anything, customerID, mock.Anything).Return([]models.Transaction{}, nil)

	summary, err := f.service.CustomerSummary(context.Background(), customerID, models.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalSpentPLN)
	assert.Equal(t, 0, summary.UniqueProducts)
	assert.Nil(t, summary.LastTransactionDate)
}

func TestCustomerSummary_UnknownCustomerIsNotFound(t *testing.T) {
	f := newReportFixture()
	customerID := uuid.New()

	f.customerRepo.On("GetByID", mock.Anything, customerID).Return(nil, custom_err.ErrNotFound)

	summary, err := f.service.CustomerSummary(context.Background(), customerID, models.DateRange{})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
	f.transactionRepo.AssertNotCalled(t, "ListByCustomer")
}

func TestProductSummary_SumsQuantityAndRevenue(t *testing.T) {
	f := newReportFixture()
	productID := uuid.New()
	customerID := uuid.New()
	now := time.Now()

	f.productRepo.On("GetByID", mock.Anything, productID).Return(&models.Product{ID: productID}, nil)
	f.transactionRepo.On("ListByProduct", mock.Anything, productID, mock.Anything).Return([]models.Transaction{
		ledgerRow(customerID, productID, "50.00", models.CurrencyEUR, 5, now),
		ledgerRow(customerID, productID, "50.00", models.CurrencyEUR, 5, now),
	}, nil)

	summary, err := f.service.ProductSummary(context.Background(), productID, models.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, productID.String(), summary.ProductID)
	assert.Equal(t, int64(10), summary.TotalQuantitySold)
	// 2 x 50.00 EUR по курсу 4.3
	assert.Equal(t, 430.00, summary.TotalRevenuePLN)
	assert.Equal(t, 1, summary.UniqueCustomers)
}

func TestProductSummary_NoTransactionsYieldsZeroes(t *testing.T) {
	f := newReportFixture()
	productID := uuid.New()

	f.productRepo.On("GetByID", mock.Anything, productID).Return(&models.Product{ID: productID}, nil)
	f.transactionRepo.On("ListByProduct", mock.Anything, productID, mock.Anything).Return([]models.Transaction{}, nil)

	summary, err := f.service.ProductSummary(context.Background(), productID, models.DateRange{})

	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalQuantitySold)
	assert.Equal(t, 0.0, summary.TotalRevenuePLN)
	assert.Equal(t, 0, summary.UniqueCustomers)
}

func TestProductSummary_UnknownProductIsNotFound(t *testing.T) {
	f := newReportFixture()
	productID := uuid.New()

	f.productRepo.On("GetByID", mock.Anything, productID).Return(nil, custom_err.ErrNotFound)

	summary, err := f.service.ProductSummary(context.Background(), productID, models.DateRange{})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
}

func TestReportService_PassesDateRangeToStore(t *testing.T) {
	f := newReportFixture()
	customerID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rng := models.DateRange{From: &from, To: &to}

	f.customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	f.transactionRepo.On("ListByCustomer", mock.Anything, customerID, rng).Return([]models.Transaction{}, nil)

	_, err := f.service.CustomerSummary(context.Background(), customerID, rng)

	require.NoError(t, err)
	f.transactionRepo.AssertCalled(t, "ListByCustomer", mock.Anything, customerID, rng)
}
