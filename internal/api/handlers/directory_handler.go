package handlers

import (
	"encoding/json"
	"errors"
	"gw-transaction-ledger/internal/api/middlew"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/models"
	"gw-transaction-ledger/internal/service"
	"gw-transaction-ledger/pkg/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DirectoryHandler обслуживает справочники покупателей и товаров
type DirectoryHandler struct {
	service service.Directory
}

func NewDirectoryHandler(service service.Directory) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
	}
}

// CreateCustomer godoc
// @Summary      Создать покупателя
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.CreateCustomerRequest true "Данные покупателя"
// @Success      201 {object} models.Customer
// @Failure      400 {object} response.ErrorResponse
// @Router       /customers [post]
func (h *DirectoryHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateCustomer"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Name and email are required")
		case errors.Is(err, custom_err.ErrAlreadyExists):
			response.WriteJSONError(w, log, http.StatusConflict, "already_exists", "Customer with this email already exists")
		default:
			log.Error("failed to create customer", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, customer)
}

// GetCustomer godoc
// @Summary      Покупатель по идентификатору
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        customerID path string true "UUID покупателя"
// @Success      200 {object} models.Customer
// @Failure      404 {object} response.ErrorResponse
// @Router       /customers/{customerID} [get]
func (h *DirectoryHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetCustomer"
	log := middlew.GetLogger(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid customer ID format")
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Customer not found")
		default:
			log.Error("failed to get customer", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, customer)
}

// DeleteCustomer godoc
// @Summary      Удалить покупателя
// @Description  Покупатель, на которого ссылаются транзакции, не удаляется
// @Tags         directory
// @Security     BearerAuth
// @Param        customerID path string true "UUID покупателя"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /customers/{customerID} [delete]
func (h *DirectoryHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	const op = "handler.DeleteCustomer"
	log := middlew.GetLogger(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid customer ID format")
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Customer not found")
		case errors.Is(err, custom_err.ErrEntityReferenced):
			log.Info("customer is referenced by transactions", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusConflict, "entity_referenced", "Customer is referenced by transactions and cannot be deleted")
		default:
			log.Error("failed to delete customer", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusNoContent, nil)
}

// CreateProduct godoc
// @Summary      Создать товар
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.CreateProductRequest true "Данные товара"
// @Success      201 {object} models.Product
// @Failure      400 {object} response.ErrorResponse
// @Router       /products [post]
func (h *DirectoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateProduct"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Name is required")
		default:
			log.Error("failed to create product", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, product)
}

// GetProduct godoc
// @Summary      Товар по идентификатору
// @Tags         directory
// @Security     BearerAuth
// @Produce      json
// @Param        productID path string true "UUID товара"
// @Success      200 {object} models.Product
// @Failure      404 {object} response.ErrorResponse
// @Router       /products/{productID} [get]
func (h *DirectoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetProduct"
	log := middlew.GetLogger(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid product ID format")
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Product not found")
		default:
			log.Error("failed to get product", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Удалить товар
// @Description  Товар, на который ссылаются транзакции, не удаляется
// @Tags         directory
// @Security     BearerAuth
// @Param        productID path string true "UUID товара"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /products/{productID} [delete]
func (h *DirectoryHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handler.DeleteProduct"
	log := middlew.GetLogger(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid product ID format")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Product not found")
		case errors.Is(err, custom_err.ErrEntityReferenced):
			log.Info("product is referenced by transactions", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusConflict, "entity_referenced", "Product is referenced by transactions and cannot be deleted")
		default:
			log.Error("failed to delete product", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusNoContent, nil)
}
