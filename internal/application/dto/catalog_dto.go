package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear/editar una categoría. Sections: "Hot,Cold".
type CategoryRequest struct {
	Name     string `json:"name" validate:"required"`
	Sections string `json:"sections" validate:"required"`
}

// SectionResponse salida de una sección.
type SectionResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

// CategoryResponse salida de una categoría con sus secciones.
type CategoryResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Sections []SectionResponse `json:"sections"`
}

// ModifierSlotRequest par (modificador, variaciones) del formulario: {"name":"Size","variations":"Small,Medium"}.
type ModifierSlotRequest struct {
	Name       string `json:"name"`
	Variations string `json:"variations"`
}

// MenuItemRequest entrada para crear o editar un ítem del menú (máximo 3 modificadores).
type MenuItemRequest struct {
	Name        string                `json:"name" validate:"required"`
	Price       decimal.Decimal       `json:"price" validate:"required"`
	CategoryID  string                `json:"category_id" validate:"required"`
	SectionID   string                `json:"section_id" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Modifiers   []ModifierSlotRequest `json:"modifiers" validate:"max=3"`
}

// ModifierResponse salida de un modificador con sus variaciones en orden.
type ModifierResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Variations []string `json:"variations"`
}

// MenuItemResponse salida de un ítem del menú.
type MenuItemResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Price       decimal.Decimal    `json:"price"`
	Description string             `json:"description"`
	CategoryID  string             `json:"category_id"`
	SectionID   string             `json:"section_id"`
	Status      string             `json:"status"`
	Modifiers   []ModifierResponse `json:"modifiers"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MenuSectionResponse sección del menú con sus ítems activos.
type MenuSectionResponse struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Items []MenuItemResponse `json:"items"`
}

// MenuCategoryResponse categoría del menú con secciones activas.
type MenuCategoryResponse struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Sections []MenuSectionResponse `json:"sections"`
}

// MenuResponse menú completo (solo elementos activos).
type MenuResponse struct {
	Categories []MenuCategoryResponse `json:"categories"`
}

// ImportRowResult resultado de una fila de la carga masiva.
type ImportRowResult struct {
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

// ImportReport resumen de la carga masiva del menú.
type ImportReport struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}
