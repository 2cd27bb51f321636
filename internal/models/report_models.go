package models

import "time"

// CustomerSummary - сводка по покупателю. Суммы в базовой валюте (PLN),
// last_transaction_date равен null, если транзакций в периоде нет.
type CustomerSummary struct {
	CustomerID          string     `json:"customer_id"`
	TotalSpentPLN       float64    `json:"total_spent_pln"`
	UniqueProducts      int        `json:"unique_products"`
	LastTransactionDate *time.Time `json:"last_transaction_date"`
}

// ProductSummary - сводка по товару
type ProductSummary struct {
	ProductID         string  `json:"product_id"`
	TotalQuantitySold int64   `json:"total_quantity_sold"`
	TotalRevenuePLN   float64 `json:"total_revenue_pln"`
	UniqueCustomers   int     `json:"unique_customers"`
}

// DateRange - необязательные границы периода отчета. Границы включительные
// и применяются к дате транзакции без учета времени.
type DateRange struct {
	From *time.Time
	To   *time.Time
}
