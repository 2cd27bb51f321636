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

func TestListTransactions_PaginationMetadata(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)
	filter := models.TransactionListFilter{}

	repo.On("Count", mock.Anything, filter).Return(int64(100), nil)
	repo.On("List", mock.Anything, filter, uint64(models.PageSize), uint64(models.PageSize)).
		Return(make([]models.Transaction, models.PageSize), nil)

	page, err := service.List(context.Background(), filter, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(100), page.Count)
	assert.Equal(t, int64(2), page.NumPages)
	assert.Equal(t, int64(2), page.CurrentPage)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
	assert.Len(t, page.Results, models.PageSize)
}

func TestListTransactions_FirstPage(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)
	filter := models.TransactionListFilter{}

	repo.On("Count", mock.Anything, filter).Return(int64(75), nil)
	repo.On("List", mock.Anything, filter, uint64(models.PageSize), uint64(0)).
		Return(make([]models.Transaction, models.PageSize), nil)

	page, err := service.List(context.Background(), filter, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.NumPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestListTransactions_EmptySetStillOnePage(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)
	filter := models.TransactionListFilter{}

	repo.On("Count", mock.Anything, filter).Return(int64(0), nil)
	repo.On("List", mock.Anything, filter, uint64(models.PageSize), uint64(0)).
		Return([]models.Transaction{}, nil)

	page, err := service.List(context.Background(), filter, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.NumPages)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestListTransactions_PageOutOfRange(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)
	filter := models.TransactionListFilter{}

	repo.On("Count", mock.Anything, filter).Return(int64(100), nil)

	page, err := service.List(context.Background(), filter, 3)

	assert.Nil(t, page)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
	repo.AssertNotCalled(t, "List")
}

func TestListTransactions_InvalidPage(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)

	page, err := service.List(context.Background(), models.TransactionListFilter{}, 0)

	assert.Nil(t, page)
	assert.ErrorIs(t, err, custom_err.ErrInvalidInput)
}

func TestGetTransactionByID_Projection(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)

	transactionID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	repo.On("GetByID", mock.Anything, transactionID).Return(&models.Transaction{
		TransactionID: transactionID,
		Timestamp:     ts,
		Amount:        decimal.RequireFromString("123.45"),
		Currency:      models.CurrencyUSD,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      2,
	}, nil)

	projection, err := service.GetByID(context.Background(), transactionID)

	require.NoError(t, err)
	assert.Equal(t, transactionID.String(), projection.TransactionID)
	assert.Equal(t, "2024-03-01T10:30:00Z", projection.Timestamp)
	// сумма - строка с двумя знаками, без потери точности
	assert.Equal(t, "123.45", projection.Amount)
	assert.Equal(t, "USD", projection.Currency)
	assert.Equal(t, int64(2), projection.Quantity)
}

func TestGetTransactionByID_NotFound(t *testing.T) {
	repo := new(MockTransactionRepo)
	service := NewTransactionService(repo)
	transactionID := uuid.New()

	repo.On("GetByID", mock.Anything, transactionID).Return(nil, custom_err.ErrNotFound)

	projection, err := service.GetByID(context.Background(), transactionID)

	assert.Nil(t, projection)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
}
