package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	// Create persiste el pedido. Devuelve domain.ErrActiveOrderExists si el usuario
	// ya tiene un pedido started (índice único parcial).
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido dentro de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetStartedByUser(ctx context.Context, userID string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Order, error)
	CountByTable(ctx context.Context, tableID string) (int, error)
	// TotalByStatus suma los subtotales de las líneas de los pedidos en ese estado.
	TotalByStatus(ctx context.Context, status string) (decimal.Decimal, error)
}

// OrderItemRepository define el puerto de persistencia para las líneas de pedido
// y sus variaciones elegidas (tabla order_item_variations).
type OrderItemRepository interface {
	Create(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.OrderItem, error)
	Update(ctx context.Context, item *entity.OrderItem) error
	Delete(ctx context.Context, id string) error
	// ListByOrder devuelve las líneas con variaciones y nombre del ítem.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	// ListMatching devuelve las líneas del pedido con el mismo ítem y notas exactas (con variaciones).
	ListMatching(ctx context.Context, orderID, menuItemID, notes string) ([]*entity.OrderItem, error)
	CountByOrder(ctx context.Context, orderID string) (int, error)
	CountByMenuItem(ctx context.Context, menuItemID string) (int, error)
	AttachVariation(ctx context.Context, orderItemID, variationID string) error
}
