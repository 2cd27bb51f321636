package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/kafka"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/storage/postgres"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Ingest interface {
	UploadTransactions(ctx context.Context, fileName string, data []byte) (*models.UploadResult, error)
}

type IngestService struct {
	transactionRepo postgres.TransactionRepository
	customerRepo    postgres.CustomerRepository
	productRepo     postgres.ProductRepository
	txManager       TxManager
	producer        kafka.Producer
	log             *slog.Logger
}

func NewIngestService(
	transactionRepo postgres.TransactionRepository,
	customerRepo postgres.CustomerRepository,
	productRepo postgres.ProductRepository,
	txManager TxManager,
	producer kafka.Producer,
	log *slog.Logger,
) Ingest {
	return &IngestService{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		txManager:       txManager,
		producer:        producer,
		log:             log,
	}
}

// timestampLayouts - принимаемые форматы ISO-8601, с зоной и без
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UploadTransactions обрабатывает CSV-файл построчно. Ошибка строки
// записывается в результат и не прерывает обработку остальных строк;
// каждая валидная строка фиксируется в собственной транзакции.
// Фатальна только невозможность прочитать файл как UTF-8.
func (s *IngestService) UploadTransactions(ctx context.Context, fileName string, data []byte) (*models.UploadResult, error) {
	const op = "service.UploadTransactions"

	if !utf8.Valid(data) {
		return nil, custom_err.ErrInvalidEncoding
	}

	result := &models.UploadResult{Errors: []models.RowError{}}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	// Заголовок определяет порядок колонок, строки читаются по именам
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.publishEvent(ctx, fileName, result)
			return result, nil
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", op, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	line := 1 // заголовок - строка 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		rowMap := mapRow(columns, record)
		if err != nil {
			result.Errors = append(result.Errors, models.RowError{Line: line, Row: rowMap, Error: err.Error()})
			continue
		}

		transaction, rowErr := s.buildRow(ctx, rowMap)
		if rowErr == nil {
			rowErr = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
				return s.transactionRepo.CreateTx(ctx, tx, transaction)
			})
			if errors.Is(rowErr, custom_err.ErrAlreadyExists) {
				rowErr = fmt.Errorf("transaction with this id already exists")
			}
		}
		if rowErr != nil {
			result.Errors = append(result.Errors, models.RowError{Line: line, Row: rowMap, Error: rowErr.Error()})
			continue
		}
		result.Inserted++
	}

	s.log.Info("csv файл обработан",
		slog.String("file", fileName),
		slog.Int("inserted", result.Inserted),
		slog.Int("failed", len(result.Errors)))

	s.publishEvent(ctx, fileName, result)
	return result, nil
}

// buildRow собирает валидную транзакцию из строки CSV. Валюта на этом
// этапе только нормализуется, ее проверяет Validate перед записью.
func (s *IngestService) buildRow(ctx context.Context, row map[string]string) (*models.Transaction, error) {
	transactionID, err := uuid.Parse(row["transaction_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid transaction_id: %q", row["transaction_id"])
	}

	timestamp, err := parseTimestamp(row["timestamp"])
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(row["amount"])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %q", row["amount"])
	}

	currency := models.Currency(strings.ToUpper(strings.TrimSpace(row["currency"])))

	customerID, err := uuid.Parse(row["customer_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %q", row["customer_id"])
	}

	productID, err := uuid.Parse(row["product_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %q", row["product_id"])
	}

	quantity, err := strconv.ParseInt(row["quantity"], 10, 64)
	if err != nil || quantity < 1 {
		return nil, fmt.Errorf("quantity must be a positive integer, got %q", row["quantity"])
	}

	// Ссылки проверяются на этапе валидации, а не при записи
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, fmt.Errorf("customer %s not found", customerID)
		}
		return nil, err
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, fmt.Errorf("product %s not found", productID)
		}
		return nil, err
	}

	transaction := &models.Transaction{
		TransactionID: transactionID,
		Timestamp:     timestamp,
		Amount:        amount,
		Currency:      currency,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *IngestService) publishEvent(ctx context.Context, fileName string, result *models.UploadResult) {
	event := models.IngestionCompletedEvent{
		UploadID:   uuid.NewString(),
		FileName:   fileName,
		Inserted:   result.Inserted,
		Failed:     len(result.Errors),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.producer.SendIngestionEvent(ctx, event); err != nil {
		s.log.Error("не удалось отправить событие о загрузке",
			slog.String("file", fileName),
			slog.String("error", err.Error()))
	}
}

func mapRow(columns map[string]int, record []string) map[string]string {
	row := make(map[string]string, len(columns))
	for name, idx := range columns {
		if idx < len(record) {
			row[name] = record[idx]
		} else {
			row[name] = ""
		}
	}
	return row
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", value)
}
