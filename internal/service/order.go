package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/linemk/pizza-orders/internal/domain/models"
	"github.com/linemk/pizza-orders/internal/storage"
)

// ErrUnknownCaller - токен валиден, но пользователя с таким username уже нет.
var ErrUnknownCaller = errors.New("caller is not a registered user")

type OrderService interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	PlaceOrder(ctx context.Context, username string, order *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, userRepo storage.UserStorage, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:       log,
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// logFailure пишет ошибку в лог; "не найдено" - ожидаемая ситуация, поэтому Warn
func logFailure(logger *slog.Logger, msg string, err error) {
	if errors.Is(err, storage.ErrOrderNotFound) || errors.Is(err, storage.ErrUserNotFound) {
		logger.Warn(msg, slog.Any("error", err))
		return
	}
	logger.Error(msg, slog.Any("error", err))
}

func (s *orderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"
	logger := s.log.With(slog.String("op", op))

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, errors.Wrap(err, op)
	}
	return orders, nil
}

// PlaceOrder создаёт заказ от имени вызывающего; статус по умолчанию PENDING.
func (s *orderService) PlaceOrder(ctx context.Context, username string, order *models.Order) (*models.Order, error) {
	const op = "service.OrderService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("caller not found")
			return nil, errors.Wrap(ErrUnknownCaller, op)
		}
		logger.Error("failed to resolve caller", slog.Any("error", err))
		return nil, errors.Wrap(err, op)
	}

	order.UserID = user.ID
	created, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, errors.Wrap(err, op)
	}

	logger.Info("order placed", slog.Int64("orderID", created.ID))
	return created, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", id))

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		logFailure(logger, "failed to get order", err)
		return nil, errors.Wrap(err, op)
	}
	return order, nil
}

// UpdateOrder перезаписывает flavour, quantity и size; статус не трогает.
func (s *orderService) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	const op = "service.OrderService.UpdateOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", order.ID))

	updated, err := s.orderRepo.UpdateOrder(ctx, order)
	if err != nil {
		logFailure(logger, "failed to update order", err)
		return nil, errors.Wrap(err, op)
	}

	logger.Info("order updated")
	return updated, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	const op = "service.OrderService.DeleteOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", id))

	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		logFailure(logger, "failed to delete order", err)
		return errors.Wrap(err, op)
	}

	logger.Info("order deleted")
	return nil
}

func (s *orderService) GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	const op = "service.OrderService.GetUserOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))

	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		logFailure(logger, "failed to get user", err)
		return nil, errors.Wrap(err, op)
	}

	order, err := s.orderRepo.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		logFailure(logger, "failed to get user order", err)
		return nil, errors.Wrap(err, op)
	}
	return order, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListUserOrders"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		logFailure(logger, "failed to get user", err)
		return nil, errors.Wrap(err, op)
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to list user orders", slog.Any("error", err))
		return nil, errors.Wrap(err, op)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	const op = "service.OrderService.UpdateOrderStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", id), slog.String("status", string(status)))

	updated, err := s.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		logFailure(logger, "failed to update order status", err)
		return nil, errors.Wrap(err, op)
	}

	logger.Info("order status updated")
	return updated, nil
}
