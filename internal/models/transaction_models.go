package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction - запись реестра (леджера). Создается только через CSV-загрузку,
// после создания не изменяется.
type Transaction struct {
	TransactionID uuid.UUID       `json:"transaction_id" db:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp" db:"timestamp"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      Currency        `json:"currency" db:"currency"`
	CustomerID    uuid.UUID       `json:"customer_id" db:"customer_id"`
	ProductID     uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity      int64           `json:"quantity" db:"quantity"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Currency типы
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	// CurrencyPLN - базовая валюта отчетов; на входе не принимается.
	CurrencyPLN Currency = "PLN"
)

// IsValid проверяет, что валюта разрешена для хранения
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

// AllowedCurrencies возвращает список валют, допустимых на входе
func AllowedCurrencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR}
}

// Validate повторяет ограничения хранилища. Вызывается перед вставкой,
// чтобы неверная строка стала ошибкой строки, а не ошибкой запроса.
func (t *Transaction) Validate() error {
	if !t.Currency.IsValid() {
		return fmt.Errorf("currency '%s' is not allowed, allowed currencies: %v", t.Currency, AllowedCurrencies())
	}
	if t.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", t.Quantity)
	}
	return nil
}

// TransactionProjection - представление транзакции в ответах API.
// Сумма сериализуется строкой, чтобы не терять точность.
type TransactionProjection struct {
	TransactionID string `json:"transaction_id"`
	Timestamp     string `json:"timestamp"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	CustomerID    string `json:"customer_id"`
	ProductID     string `json:"product_id"`
	Quantity      int64  `json:"quantity"`
}

// Project строит проекцию для ответа API
func (t *Transaction) Project() TransactionProjection {
	return TransactionProjection{
		TransactionID: t.TransactionID.String(),
		Timestamp:     t.Timestamp.Format(time.RFC3339),
		Amount:        t.Amount.StringFixed(2),
		Currency:      string(t.Currency),
		CustomerID:    t.CustomerID.String(),
		ProductID:     t.ProductID.String(),
		Quantity:      t.Quantity,
	}
}

// PageSize - фиксированный размер страницы списка транзакций
const PageSize = 50

// TransactionListFilter - фильтры списка транзакций
type TransactionListFilter struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
}

// TransactionPage - страница списка с метаданными пагинации
type TransactionPage struct {
	Count       int64                   `json:"count"`
	NumPages    int64                   `json:"num_pages"`
	CurrentPage int64                   `json:"current_page"`
	HasNext     bool                    `json:"has_next"`
	HasPrevious bool                    `json:"has_previous"`
	Results     []TransactionProjection `json:"results"`
}
