package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
)

type ingestFixture struct {
	service         Ingest
	transactionRepo *MockTransactionRepo
	customerRepo    *MockCustomerRepo
	productRepo     *MockProductRepo
	txManager       *MockTxManager
	producer        *MockKafkaProducer
	customerID      uuid.UUID
	productID       uuid.UUID
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	f := &ingestFixture{
		transactionRepo: new(MockTransactionRepo),
		customerRepo:    new(MockCustomerRepo),
		productRepo:     new(MockProductRepo),
		txManager:       new(MockTxManager),
		producer:        new(MockKafkaProducer),
		customerID:      uuid.New(),
		productID:       uuid.New(),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewIngestService(f.transactionRepo, f.customerRepo, f.productRepo, f.txManager, f.producer, log)
	f.producer.On("SendIngestionEvent", mock.Anything, mock.Anything).Return(nil)
	return f
}

func (f *ingestFixture) expectKnownReferences() {
	f.customerRepo.On("GetByID", mock.Anything, f.customerID).Return(&models.Customer{ID: f.customerID}, nil)
	f.productRepo.On("GetByID", mock.Anything, f.productID).Return(&models.Product{ID: f.productID}, nil)
}

func (f *ingestFixture) expectInsertOK() {
	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.transactionRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

const csvHeader = "transaction_id,timestamp,amount,currency,customer_id,product_id,quantity\n"

func (f *ingestFixture) validRow(transactionID uuid.UUID) string {
	return transactionID.String() + ",2024-03-01T10:00:00,100.00,USD," +
		f.customerID.String() + "," + f.productID.String() + ",2\n"
}

func TestUploadTransactions_ValidRows(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()
	f.expectInsertOK()

	data := csvHeader + f.validRow(uuid.New()) + f.validRow(uuid.New()) + f.validRow(uuid.New())

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Empty(t, result.Errors)
	f.transactionRepo.AssertNumberOfCalls(t, "CreateTx", 3)
}

func TestUploadTransactions_HeaderOrderIndependent(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()
	f.expectInsertOK()

	data := "quantity,currency,amount,product_id,customer_id,timestamp,transaction_id\n" +
		"5,eur ,50.00," + f.productID.String() + "," + f.customerID.String() +
		",2024-03-01T10:00:00," + uuid.New().String() + "\n"

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Empty(t, result.Errors)

	// валюта нормализуется: пробелы убраны, верхний регистр
	inserted := f.transactionRepo.Calls[0].Arguments.Get(2).(*models.Transaction)
	assert.Equal(t, models.CurrencyEUR, inserted.Currency)
	assert.Equal(t, int64(5), inserted.Quantity)
}

func TestUploadTransactions_RowErrorsDoNotAbortBatch(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()
	f.expectInsertOK()

	data := csvHeader +
		"not-a-uuid,2024-03-01T10:00:00,10.00,USD," + f.customerID.String() + "," + f.productID.String() + ",1\n" +
		f.validRow(uuid.New()) +
		uuid.New().String() + ",not-a-date,10.00,USD," + f.customerID.String() + "," + f.productID.String() + ",1\n" +
		f.validRow(uuid.New())

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Errors, 2)
	// заголовок - строка 1, ошибки упорядочены по файлу
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Contains(t, result.Errors[0].Error, "transaction_id")
	assert.Equal(t, 4, result.Errors[1].Line)
	assert.Contains(t, result.Errors[1].Error, "timestamp")
}

func TestUploadTransactions_FieldParsing(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(f *ingestFixture) string
		errContains string
	}{
		{
			name: "bad amount",
			mutate: func(f *ingestFixture) string {
				return uuid.New().String() + ",2024-03-01T10:00:00,abc,USD," +
					f.customerID.String() + "," + f.productID.String() + ",1\n"
			},
			errContains: "amount",
		},
		{
			name: "zero quantity",
			mutate: func(f *ingestFixture) string {
				return uuid.New().String() + ",2024-03-01T10:00:00,10.00,USD," +
					f.customerID.String() + "," + f.productID.String() + ",0\n"
			},
			errContains: "quantity",
		},
		{
			name: "negative quantity",
			mutate: func(f *ingestFixture) string {
				return uuid.New().String() + ",2024-03-01T10:00:00,10.00,USD," +
					f.customerID.String() + "," + f.productID.String() + ",-3\n"
			},
			errContains: "quantity",
		},
		{
			name: "bad customer uuid",
			mutate: func(f *ingestFixture) string {
				return uuid.New().String() + ",2024-03-01T10:00:00,10.00,USD,oops," +
					f.productID.String() + ",1\n"
			},
			errContains: "customer_id",
		},
		{
			name: "missing field in short row",
			mutate: func(f *ingestFixture) string {
				return uuid.New().String() + ",2024-03-01T10:00:00,10.00\n"
			},
			errContains: "customer_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIngestFixture(t)
			f.expectKnownReferences()

			data := csvHeader + tt.mutate(f)
			result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

			require.NoError(t, err)
			assert.Equal(t, 0, result.Inserted)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0].Error, tt.errContains)
			f.transactionRepo.AssertNotCalled(t, "CreateTx")
		})
	}
}

func TestUploadTransactions_UnknownCustomerIsRowError(t *testing.T) {
	f := newIngestFixture(t)
	f.customerRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, custom_err.ErrNotFound)

	data := csvHeader + f.validRow(uuid.New())

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "customer")
	assert.Contains(t, result.Errors[0].Error, "not found")
	f.transactionRepo.AssertNotCalled(t, "CreateTx")
}

func TestUploadTransactions_InvalidCurrencyFailsAtStoreStage(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()

	// PLN - валюта отчетов, на входе не принимается
	data := csvHeader + uuid.New().String() + ",2024-03-01T10:00:00,10.00,PLN," +
		f.customerID.String() + "," + f.productID.String() + ",1\n"

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "PLN")
	f.transactionRepo.AssertNotCalled(t, "CreateTx")
}

func TestUploadTransactions_DuplicateIDIsRowError(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()
	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.transactionRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(custom_err.ErrAlreadyExists).Once()
	f.transactionRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	transactionID := uuid.New()
	data := csvHeader + f.validRow(transactionID) + f.validRow(transactionID)

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	// вторая строка записана независимо от ошибки первой
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "already exists")
}

func TestUploadTransactions_NotUTF8IsFatal(t *testing.T) {
	f := newIngestFixture(t)

	data := []byte{0xff, 0xfe, 0x00, 0x41}

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", data)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, custom_err.ErrInvalidEncoding)
}

func TestUploadTransactions_EmptyFile(t *testing.T) {
	f := newIngestFixture(t)

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestUploadTransactions_RowMapKeepsRawValues(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()

	data := csvHeader + "bad-id,2024-03-01T10:00:00,10.00,USD," +
		f.customerID.String() + "," + f.productID.String() + ",1\n"

	result, err := f.service.UploadTransactions(context.Background(), "transactions.csv", []byte(data))

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad-id", result.Errors[0].Row["transaction_id"])
	assert.Equal(t, "USD", result.Errors[0].Row["currency"])
}

func TestUploadTransactions_PublishesBatchEvent(t *testing.T) {
	f := newIngestFixture(t)
	f.expectKnownReferences()
	f.expectInsertOK()

	data := csvHeader + f.validRow(uuid.New())

	_, err := f.service.UploadTransactions(context.Background(), "report.csv", []byte(data))

	require.NoError(t, err)
	f.producer.AssertCalled(t, "SendIngestionEvent", mock.Anything, mock.MatchedBy(func(e models.IngestionCompletedEvent) bool {
		return e.FileName == "report.csv" && e.Inserted == 1 && e.Failed == 0
	}))
}
