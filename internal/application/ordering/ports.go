package ordering

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// Receipt datos que necesita la representación impresa de un pedido.
type Receipt struct {
	Restaurant   string
	OrderID      string
	TableName    string
	EmployeeName string
	CustomerName string
	Status       string
	CreatedAt    time.Time
	ClosedAt     *time.Time
	Lines        []*entity.OrderItem
	Total        decimal.Decimal
}

// ReceiptGenerator genera el comprobante (PDF) de un pedido.
type ReceiptGenerator interface {
	Generate(r *Receipt) ([]byte, error)
}
