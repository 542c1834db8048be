package entity

import "time"

// Category representa una categoría del menú (ej. DRINKS). Name se guarda en mayúsculas.
type Category struct {
	ID        string
	Name      string
	Status    string // active, inactive
	Sections  []*Section
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Section agrupa ítems dentro de una categoría (ej. Hot, Cold).
type Section struct {
	ID         string
	CategoryID string
	Name       string
	Status     string // active, inactive
	CreatedAt  time.Time
}
