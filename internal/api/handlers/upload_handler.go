package handlers

import (
	"errors"
	"gw-transaction-ledger/internal/api/middlew"
	"gw-transaction-ledger/internal/custom_err"
	"gw-transaction-ledger/internal/service"
	"gw-transaction-ledger/pkg/response"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxUploadMemory = 32 << 20

type UploadHandler struct {
	service service.Ingest
}

func NewUploadHandler(service service.Ingest) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// UploadTransactions godoc
// @Summary      Загрузить транзакции из CSV
// @Description  Принимает CSV-файл, валидирует строки и записывает валидные. Ошибки строк возвращаются в ответе и не прерывают загрузку.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV-файл с транзакциями"
// @Success      201 {object} models.UploadResult
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /transactions/upload [post]
func (h *UploadHandler) UploadTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.UploadTransactions"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Warn("invalid multipart form", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "No file provided.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("file field missing", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "No file provided.")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".csv") {
		log.Warn("unexpected file extension", slog.String("op", op), slog.String("filename", header.Filename))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "File is not CSV.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read upload", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to read uploaded file")
		return
	}

	log.Info("processing csv upload",
		slog.String("op", op),
		slog.String("filename", header.Filename),
		slog.Int("size", len(data)))

	result, err := h.service.UploadTransactions(r.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidEncoding):
			log.Warn("upload is not valid utf-8", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_encoding", "File is not valid UTF-8")
		default:
			log.Error("failed to process upload", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, result)
}
