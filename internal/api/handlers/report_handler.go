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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	service service.Report
}

func NewReportHandler(service service.Report) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// CustomerSummary godoc
// @Summary      Сводка по покупателю
// @Description  Итог трат в PLN, число различных товаров и дата последней транзакции за период
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        customerID path string true "UUID покупателя"
// @Param        from query string false "Начало периода, YYYY-MM-DD, включительно"
// @Param        to query string false "Конец периода, YYYY-MM-DD, включительно"
// @Success      200 {object} models.CustomerSummary
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /reports/customer-summary/{customerID} [get]
func (h *ReportHandler) CustomerSummary(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CustomerSummary"
	log := middlew.GetLogger(r.Context())

	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid customer ID format")
		return
	}

	rng, err := parseDateRange(r)
	if err != nil {
		log.Warn("invalid date range", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Dates must be in YYYY-MM-DD format")
		return
	}

	summary, err := h.service.CustomerSummary(r.Context(), customerID, rng)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("customer not found", slog.String("op", op), slog.String("id", customerID.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Customer not found")
		default:
			log.Error("failed to build customer summary", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to build summary")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, summary)
}

// ProductSummary godoc
// @Summary      Сводка по товару
// @Description  Проданное количество, выручка в PLN и число различных покупателей за период
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        productID path string true "UUID товара"
// @Param        from query string false "Начало периода, YYYY-MM-DD, включительно"
// @Param        to query string false "Конец периода, YYYY-MM-DD, включительно"
// @Success      200 {object} models.ProductSummary
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /reports/product-summary/{productID} [get]
func (h *ReportHandler) ProductSummary(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ProductSummary"
	log := middlew.GetLogger(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid product ID format")
		return
	}

	rng, err := parseDateRange(r)
	if err != nil {
		log.Warn("invalid date range", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Dates must be in YYYY-MM-DD format")
		return
	}

	summary, err := h.service.ProductSummary(r.Context(), productID, rng)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("product not found", slog.String("op", op), slog.String("id", productID.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Product not found")
		default:
			log.Error("failed to build product summary", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to build summary")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, summary)
}

// parseDateRange читает необязательные границы периода из query-параметров
func parseDateRange(r *http.Request) (models.DateRange, error) {
	var rng models.DateRange

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return models.DateRange{}, err
		}
		rng.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return models.DateRange{}, err
		}
		rng.To = &to
	}
	return rng, nil
}
