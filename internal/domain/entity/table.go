package entity

import "time"

// Estados de mesa.
const (
	TableAvailable   = "available"
	TableUnavailable = "unavailable"
	TableInactive    = "inactive"
)

// Table representa una mesa del salón. La mesa para llevar (IsTakeOut) nunca pasa a unavailable.
type Table struct {
	ID        string
	Name      string
	Status    string // available, unavailable, inactive
	IsTakeOut bool
	CreatedAt time.Time
}

// Occupy marca la mesa como ocupada por un pedido iniciado.
func (t *Table) Occupy() bool {
	if t.IsTakeOut || t.Status != TableAvailable {
		return false
	}
	t.Status = TableUnavailable
	return true
}

// Release libera la mesa al cerrar o cancelar su pedido. Una mesa inactiva se queda inactiva.
func (t *Table) Release() bool {
	if t.Status != TableUnavailable {
		return false
	}
	t.Status = TableAvailable
	return true
}

// AcceptsOrders indica si se puede iniciar un pedido en la mesa.
func (t *Table) AcceptsOrders() bool {
	if t.Status == TableInactive {
		return false
	}
	return t.IsTakeOut || t.Status == TableAvailable
}
