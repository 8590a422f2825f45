package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/pizza-orders/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = "id, flavour, quantity, size, order_status, user_id, created_at"

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// ListOrders возвращает все заказы всех пользователей в порядке id.
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// CreateOrder вставляет заказ; id, статус и (если не задано) количество проставляет БД.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// UpdateOrder перезаписывает flavour, quantity и size.
	UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	// GetUserOrder ищет заказ с указанным id, принадлежащий указанному пользователю.
	GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
}

// orderRepository - конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*models.Order, error) {
	order := &models.Order{}
	if err := s.Scan(&order.ID, &order.Flavour, &order.Quantity, &order.Size, &order.OrderStatus, &order.UserID, &order.CreatedAt); err != nil {
		return nil, err
	}
	return order, nil
}

// queryOrder выполняет запрос, возвращающий не больше одной строки заказа.
func (r *orderRepository) queryOrder(ctx context.Context, query string, args ...any) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id")
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var row *sql.Row
	if order.Quantity > 0 {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO orders (flavour, quantity, size, user_id) VALUES ($1, $2, $3, $4)
			 RETURNING `+orderColumns,
			order.Flavour, order.Quantity, order.Size, order.UserID,
		)
	} else {
		// количество не передано - берём DEFAULT из схемы
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO orders (flavour, size, user_id) VALUES ($1, $2, $3)
			 RETURNING `+orderColumns,
			order.Flavour, order.Size, order.UserID,
		)
	}
	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.queryOrder(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return r.queryOrder(ctx,
		"UPDATE orders SET flavour = $1, quantity = $2, size = $3 WHERE id = $4 RETURNING "+orderColumns,
		order.Flavour, order.Quantity, order.Size, order.ID,
	)
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	return r.queryOrder(ctx,
		"UPDATE orders SET order_status = $1 WHERE id = $2 RETURNING "+orderColumns,
		status, id,
	)
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) GetUserOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	return r.queryOrder(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 AND user_id = $2",
		orderID, userID,
	)
}

// GetOrdersByUserID возвращает заказы пользователя в порядке id.
func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	return r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY id", userID)
}
