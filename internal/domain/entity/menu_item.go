package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem representa un producto vendible del menú.
// Modifiers solo se llena en lecturas que lo requieren (GetWithModifiers).
type MenuItem struct {
	ID          string
	Name        string // único
	Price       decimal.Decimal
	Description string
	CategoryID  string
	SectionID   string
	Status      string // active, inactive
	Modifiers   []*Modifier
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el ítem puede agregarse a pedidos.
func (m *MenuItem) IsActive() bool { return m.Status == StatusActive }
