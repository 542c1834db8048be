package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
//
//	started ──submit──▶ submitted ──close──▶ closed
//	   │                                       ▲
//	   ├──cancel──▶ cancelled                  │
//	   └──close (con ítems) ───────────────────┘
const (
	OrderStarted   = "started"
	OrderSubmitted = "submitted"
	OrderCancelled = "cancelled"
	OrderClosed    = "closed"
)

// Order representa el pedido de un cliente en una mesa, creado por un empleado.
type Order struct {
	ID           string
	CustomerName string
	Status       string
	TableID      string
	UserID       string
	CreatedAt    time.Time
	SubmittedAt  *time.Time
	ClosedAt     *time.Time
	Items        []*OrderItem // se llena en lecturas de detalle
}

// IsOpen indica si el pedido no ha llegado a un estado terminal.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStarted || o.Status == OrderSubmitted
}

// CanSubmit: solo un pedido iniciado con al menos una línea.
func (o *Order) CanSubmit(lines int) bool {
	return o.Status == OrderStarted && lines > 0
}

// Submit pasa el pedido a submitted. El llamador valida las líneas con CanSubmit.
func (o *Order) Submit(now time.Time) {
	o.Status = OrderSubmitted
	o.SubmittedAt = &now
}

// CanCancel: solo un pedido iniciado puede cancelarse.
func (o *Order) CanCancel() bool { return o.Status == OrderStarted }

// Cancel pasa el pedido a cancelled.
func (o *Order) Cancel(now time.Time) {
	o.Status = OrderCancelled
	o.ClosedAt = &now
}

// CanClose: desde submitted, o directo desde started si ya tiene líneas.
func (o *Order) CanClose(lines int) bool {
	switch o.Status {
	case OrderSubmitted:
		return true
	case OrderStarted:
		return lines > 0
	}
	return false
}

// Close pasa el pedido a closed.
func (o *Order) Close(now time.Time) {
	o.Status = OrderClosed
	o.ClosedAt = &now
}

// Total suma los subtotales de las líneas cargadas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// OrderItem es una línea del pedido: cantidad de un ítem con sus variaciones y notas.
type OrderItem struct {
	ID         string
	OrderID    string
	MenuItemID string
	ItemName   string // se llena en lecturas (JOIN menu_items)
	Quantity   int
	Notes      string
	Subtotal   decimal.Decimal
	Variations []*Variation
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VariationNames devuelve los nombres de las variaciones elegidas.
func (oi *OrderItem) VariationNames() []string {
	names := make([]string, 0, len(oi.Variations))
	for _, v := range oi.Variations {
		names = append(names, v.Name)
	}
	return names
}
