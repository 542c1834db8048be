// Package csvimport lee el archivo de carga masiva del menú.
//
// Columnas: category, section, name, price, description, mod1, vars1, mod2, vars2, mod3, vars3.
// La fila de encabezado es opcional. Las columnas de modificadores pueden faltar.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
)

const (
	baseColumns = 5
	bom         = "\ufeff"
)

// ErrBadFormat el archivo no tiene la forma esperada.
var ErrBadFormat = errors.New("csvimport: formato inválido")

// Options opciones de lectura.
type Options struct {
	// Latin1 decodifica el archivo como ISO-8859-1 (exportaciones de Excel en Windows).
	Latin1 bool
	// Comma separador de campos; ',' por defecto.
	Comma rune
}

// Read devuelve las filas del archivo listas para MenuItemUseCase.Import.
// Un precio ilegible queda en cero y la fila falla en la validación del caso de uso.
func Read(r io.Reader, opts Options) ([]catalog.ImportRow, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	var rows []catalog.ImportRow
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError ya indica la línea física
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		// línea física donde empieza el registro; un campo entre comillas puede ocupar varias
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			// Excel antepone BOM al exportar en UTF-8, haya o no encabezado
			rec[0] = strings.TrimPrefix(rec[0], bom)
			if isHeader(rec) {
				continue
			}
		}
		if blank(rec) {
			continue
		}
		if len(rec) < baseColumns {
			return nil, fmt.Errorf("%w: línea %d: se esperaban al menos %d columnas", ErrBadFormat, line, baseColumns)
		}
		rows = append(rows, toRow(line, rec))
	}
	return rows, nil
}

func toRow(line int, rec []string) catalog.ImportRow {
	price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
	if err != nil {
		price = decimal.Zero
	}
	row := catalog.ImportRow{
		Line:        line,
		Category:    rec[0],
		Section:     rec[1],
		Name:        rec[2],
		Price:       price,
		Description: strings.TrimSpace(rec[4]),
	}
	for i := 0; i < menu.MaxModifierSlots; i++ {
		at := baseColumns + i*2
		if at >= len(rec) {
			break
		}
		slot := catalog.ModifierSlot{Name: rec[at]}
		if at+1 < len(rec) {
			slot.Variations = rec[at+1]
		}
		row.Modifiers = append(row.Modifiers, slot)
	}
	return row
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "category")
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
