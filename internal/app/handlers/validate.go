package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/pizza-orders/internal/domain/models"
)

var validate = newValidator()

// newValidator регистрирует теги для перечислений: pizzasize и orderstatus
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("pizzasize", func(fl validator.FieldLevel) bool {
		return models.Size(fl.Field().String()).Valid()
	})
	v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	})
	return v
}

// BodyHandler - хендлер, получающий уже декодированное и провалидированное тело запроса
type BodyHandler[T any] func(w http.ResponseWriter, r *http.Request, req T)

// Validated декодирует JSON-тело в T и проверяет его тегами validator.
// Ошибка любого шага даёт 400, и next не вызывается.
func Validated[T any](log *slog.Logger, next BodyHandler[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.Validated"
		logger := log.With(slog.String("op", op), slog.String("path", r.URL.Path))

		var req T
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error: "+err.Error(), http.StatusBadRequest)
			return
		}

		next(w, r, req)
	}
}

// writeJSON отправляет ответ клиенту в формате JSON
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}
