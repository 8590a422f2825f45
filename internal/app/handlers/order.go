package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/pizza-orders/internal/domain/models"
	"github.com/linemk/pizza-orders/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pizza-orders/internal/service"
	"github.com/linemk/pizza-orders/internal/storage"
)

// PlaceOrderRequest - тело POST /orders; quantity можно не передавать
type PlaceOrderRequest struct {
	Flavour  string      `json:"flavour" validate:"required"`
	Quantity *int        `json:"quantity" validate:"omitempty,gt=0"`
	Size     models.Size `json:"size" validate:"required,pizzasize"`
}

// UpdateOrderRequest - тело PUT /order/{order_id}
type UpdateOrderRequest struct {
	Flavour  string      `json:"flavour" validate:"required"`
	Quantity int         `json:"quantity" validate:"required,gt=0"`
	Size     models.Size `json:"size" validate:"required,pizzasize"`
}

// OrderStatusRequest - тело PATCH /order/status/{order_id}
type OrderStatusRequest struct {
	OrderStatus models.OrderStatus `json:"order_status" validate:"required,orderstatus"`
}

// OrderResponse - публичное представление заказа. Наружу отдаются только эти четыре поля.
type OrderResponse struct {
	Flavour     string             `json:"flavour"`
	Quantity    int                `json:"quantity"`
	Size        models.Size        `json:"size"`
	OrderStatus models.OrderStatus `json:"order_status"`
}

// MessageResponse - ответ с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

const orderDeletedMessage = "Order Deleted Successfully"

func toOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		Flavour:     o.Flavour,
		Quantity:    o.Quantity,
		Size:        o.Size,
		OrderStatus: o.OrderStatus,
	}
}

func toOrderResponses(orders []*models.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return resp
}

// pathID достаёт числовой идентификатор из URL
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// writeOrderError переводит ошибку сервиса в HTTP-статус.
// Отсутствующий заказ или пользователь всегда дают 404.
func writeOrderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownCaller):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		logger.Error("order operation failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// ListOrdersHandler обрабатывает GET /orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListOrders(r.Context())
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponses(orders))
	}
}

// PlaceOrderHandler обрабатывает POST /orders.
// Владелец заказа - пользователь из JWT, статус проставляет БД (PENDING).
func PlaceOrderHandler(log *slog.Logger, orderService service.OrderService) BodyHandler[PlaceOrderRequest] {
	return func(w http.ResponseWriter, r *http.Request, req PlaceOrderRequest) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		username, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order := &models.Order{
			Flavour: req.Flavour,
			Size:    req.Size,
		}
		if req.Quantity != nil {
			order.Quantity = *req.Quantity
		}

		created, err := orderService.PlaceOrder(r.Context(), username, order)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, toOrderResponse(created))
	}
}

// GetOrderHandler обрабатывает GET /order/{order_id}
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := pathID(r, "order_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		order, err := orderService.GetOrder(r.Context(), id)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponse(order))
	}
}

// UpdateOrderHandler обрабатывает PUT /order/{order_id}
func UpdateOrderHandler(log *slog.Logger, orderService service.OrderService) BodyHandler[UpdateOrderRequest] {
	return func(w http.ResponseWriter, r *http.Request, req UpdateOrderRequest) {
		const op = "handlers.UpdateOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := pathID(r, "order_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := orderService.UpdateOrder(r.Context(), &models.Order{
			ID:       id,
			Flavour:  req.Flavour,
			Quantity: req.Quantity,
			Size:     req.Size,
		})
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponse(updated))
	}
}

// DeleteOrderHandler обрабатывает DELETE /order/{order_id}
func DeleteOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := pathID(r, "order_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := orderService.DeleteOrder(r.Context(), id); err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, MessageResponse{Message: orderDeletedMessage})
	}
}

// GetUserOrderHandler обрабатывает GET /user/{user_id}/order/{order_id}
func GetUserOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetUserOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, err := pathID(r, "user_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		orderID, err := pathID(r, "order_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		order, err := orderService.GetUserOrder(r.Context(), userID, orderID)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponse(order))
	}
}

// ListUserOrdersHandler обрабатывает GET /user/{user_id}/orders
func ListUserOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUserOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, err := pathID(r, "user_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		orders, err := orderService.ListUserOrders(r.Context(), userID)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponses(orders))
	}
}

// UpdateOrderStatusHandler обрабатывает PATCH /order/status/{order_id}
func UpdateOrderStatusHandler(log *slog.Logger, orderService service.OrderService) BodyHandler[OrderStatusRequest] {
	return func(w http.ResponseWriter, r *http.Request, req OrderStatusRequest) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		id, err := pathID(r, "order_id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := orderService.UpdateOrderStatus(r.Context(), id, req.OrderStatus)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toOrderResponse(updated))
	}
}
