// Package pdf genera el comprobante impreso de un pedido.
//
// Layout de la página (A5, vertical):
//
//	┌──────────────────────────────────────────────┐
//	│  Restaurante             │  Pedido + Fecha    │
//	│  ──────────────────────────────────────────  │
//	│  Mesa / Empleado / Cliente / Estado          │
//	│  ──────────────────────────────────────────  │
//	│  Cant | Ítem (variaciones, notas) | Subtotal │
//	│  ──────────────────────────────────────────  │
//	│                               TOTAL          │
//	│  QR con el ID del pedido                     │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurante-pos/internal/application/ordering"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ordering.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa ordering.ReceiptGenerator con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate arma el PDF del pedido y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(r *ordering.Receipt) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: comprobante vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+shortID(r.OrderID), true).
		WithAuthor(r.Restaurant, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(linesHeaderRow())
	m.AddRows(lineRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r.Total))
	m.AddRows(row.New(4))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr(r.OrderID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New("¡Gracias por su visita!", props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 10, Left: 3, Color: colorPrimary,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *ordering.Receipt) core.Row {
	fecha := r.CreatedAt.Format("02/01/2006 15:04")
	if r.ClosedAt != nil {
		fecha = r.ClosedAt.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(r.Restaurant, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New("Pedido "+shortID(r.OrderID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(fecha, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func infoRow(r *ordering.Receipt) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Mesa: %s   |   Atendió: %s", r.TableName, nonEmpty(r.EmployeeName, "-")),
				props.Text{Size: 8, Top: 1}),
			text.New(fmt.Sprintf("Cliente: %s   |   Estado: %s", r.CustomerName, r.Status),
				props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func linesHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 2, align.Center),
		h("Ítem", 7, align.Left),
		h("Subtotal", 3, align.Right),
	)
}

// lineRows: una fila por línea; las variaciones y las notas van debajo del nombre.
func lineRows(lines []*entity.OrderItem) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		detail := describe(l)
		height := 6.0
		if detail != "" {
			height = 10
		}
		item := col.New(7).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1}))
		if detail != "" {
			item.Add(text.New(detail, props.Text{Size: 7, Top: 5, Left: 2, Color: colorGray}))
		}
		out = append(out, row.New(height).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			item,
			col.New(3).Add(text.New(formatMoney(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// describe une variaciones y notas de la línea: "Large, Oat · sin azúcar".
func describe(l *entity.OrderItem) string {
	parts := []string{}
	if names := l.VariationNames(); len(names) > 0 {
		parts = append(parts, strings.Join(names, ", "))
	}
	if l.Notes != "" {
		parts = append(parts, l.Notes)
	}
	return strings.Join(parts, " · ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney: "$1,234.50". Separador de miles con coma, dos decimales.
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + frac
}
