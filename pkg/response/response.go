// Package response содержит общие хелперы для JSON-ответов API.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_input"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("ошибка при кодировании JSON-ответа", slog.String("error", err.Error()))
	}
}

func WriteJSONError(w http.ResponseWriter, log *slog.Logger, status int, errCode, message string) {
	writeJSON(w, log, status, ErrorResponse{Error: errCode, Message: message})
}

// WriteJSONSuccess пишет ответ с кодом status; при data == nil тело пустое
func WriteJSONSuccess(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	writeJSON(w, log, status, data)
}
