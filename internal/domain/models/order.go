package models

import "time"

// Size - размер пиццы
type Size string

const (
	SizeSmall      Size = "SMALL"
	SizeMedium     Size = "MEDIUM"
	SizeLarge      Size = "LARGE"
	SizeExtraLarge Size = "EXTRA_LARGE"
)

// Valid проверяет, что размер входит в допустимый набор
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}
	return false
}

// OrderStatus - статус доставки заказа
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusInTransit OrderStatus = "IN_TRANSIT"
	StatusDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// Order представляет заказ пиццы, принадлежащий одному пользователю.
// Quantity == 0 при создании означает "взять значение по умолчанию из БД".
type Order struct {
	ID          int64
	Flavour     string
	Quantity    int
	Size        Size
	OrderStatus OrderStatus
	UserID      int64
	CreatedAt   time.Time
}
