package exchange

import (
	"gw-transaction-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Фиксированная таблица курсов к базовой валюте (PLN). Курсы - константы
// приложения, внешний источник котировок не используется.
var exchangeRates = map[models.Currency]decimal.Decimal{
	models.CurrencyPLN: decimal.NewFromInt(1),
	models.CurrencyEUR: decimal.RequireFromString("4.3"),
	models.CurrencyUSD: decimal.RequireFromString("4.0"),
}

// Rate возвращает курс валюты к PLN. Неизвестная валюта дает курс 1
// (сумма проходит без конвертации) - это намеренное поведение.
func Rate(currency models.Currency) decimal.Decimal {
	if rate, ok := exchangeRates[currency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// ToPLN конвертирует сумму в базовую валюту. Конвертация выполняется
// для каждой транзакции отдельно, до суммирования.
func ToPLN(currency models.Currency, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(Rate(currency))
}
