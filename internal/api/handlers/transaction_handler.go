package handlers

import (
	"errors"
	"gw-transaction-ledger/internal/api/middlew"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/service"
	"gw-transaction-ledger/pkg/response"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.Transactions
}

func NewTransactionHandler(service service.Transactions) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// ListTransactions godoc
// @Summary      Список транзакций
// @Description  Возвращает страницу транзакций по убыванию времени, страница фиксированная - 50 записей
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        page query int false "Номер страницы (по умолчанию 1)"
// @Param        customer_id query string false "Фильтр по покупателю"
// @Param        product_id query string false "Фильтр по товару"
// @Success      200 {object} models.TransactionPage
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListTransactions"
	log := middlew.GetLogger(r.Context())

	var filter models.TransactionListFilter
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("invalid customer_id filter", slog.String("op", op), slog.String("customer_id", raw))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid customer_id format")
			return
		}
		filter.CustomerID = &customerID
	}
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("invalid product_id filter", slog.String("op", op), slog.String("product_id", raw))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid product_id format")
			return
		}
		filter.ProductID = &productID
	}

	page := int64(1)
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid page number")
			return
		}
		page = parsed
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid page number")
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Page not found")
		default:
			log.Error("failed to list transactions", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to list transactions")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// GetTransaction godoc
// @Summary      Транзакция по идентификатору
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        transactionID path string true "UUID транзакции"
// @Success      200 {object} models.TransactionProjection
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /transactions/{transactionID} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransaction"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "transactionID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("invalid UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid transaction ID format")
		return
	}

	transaction, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("transaction not found", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Transaction not found")
		default:
			log.Error("failed to get transaction", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve transaction")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, transaction)
}
