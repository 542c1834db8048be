package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartOrderRequest entrada para iniciar un pedido.
type StartOrderRequest struct {
	TableID      string `json:"table_id" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
}

// AddOrderLineRequest entrada para agregar un ítem al pedido.
// Variations: una variación elegida por modificador; "None" o vacío = sin selección.
type AddOrderLineRequest struct {
	MenuItemID string   `json:"menu_item_id" validate:"required"`
	Quantity   int      `json:"quantity" validate:"min=1"`
	Notes      string   `json:"notes"`
	Variations []string `json:"variations" validate:"max=3"`
}

// OrderLineResponse salida de una línea del pedido.
type OrderLineResponse struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	Notes      string          `json:"notes"`
	Variations []string        `json:"variations"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido con sus líneas.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	TableID      string              `json:"table_id"`
	UserID       string              `json:"user_id"`
	CreatedAt    time.Time           `json:"created_at"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	ClosedAt     *time.Time          `json:"closed_at,omitempty"`
	Lines        []OrderLineResponse `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
}

// AddLineResponse resultado de agregar una línea: Merged=true si se sumó a una existente.
type AddLineResponse struct {
	Line   OrderLineResponse `json:"line"`
	Merged bool              `json:"merged"`
}

// CancelOrderResponse resultado de cancelar: Deleted=true si el pedido vacío se eliminó.
type CancelOrderResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Status  string `json:"status,omitempty"`
}

// OrderSummaryResponse pedidos abiertos y total histórico de pedidos cerrados.
type OrderSummaryResponse struct {
	Open          []OrderResponse `json:"open"`
	LifetimeTotal decimal.Decimal `json:"lifetime_total"`
}
