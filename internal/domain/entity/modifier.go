package entity

import "time"

// Modifier es una categoría de personalización de un ítem (ej. Size).
// Se comparte entre ítems: dos modificadores con el mismo nombre y el mismo
// conjunto de variaciones son duplicados y no deben coexistir.
type Modifier struct {
	ID         string
	Name       string
	Variations []*Variation // en orden de posición
	CreatedAt  time.Time
}

// VariationNames devuelve los nombres de las variaciones en orden.
func (m *Modifier) VariationNames() []string {
	names := make([]string, 0, len(m.Variations))
	for _, v := range m.Variations {
		names = append(names, v.Name)
	}
	return names
}

// Variation es una opción concreta (ej. Large). Name es global y único.
type Variation struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
