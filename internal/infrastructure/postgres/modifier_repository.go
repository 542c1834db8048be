package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

var (
	_ repository.ModifierRepository  = (*ModifierRepo)(nil)
	_ repository.VariationRepository = (*VariationRepo)(nil)
)

// ModifierRepo implementación del puerto ModifierRepository sobre PostgreSQL.
type ModifierRepo struct {
	q Querier
}

// NewModifierRepository construye el adaptador de persistencia para modificadores.
func NewModifierRepository(q Querier) *ModifierRepo {
	return &ModifierRepo{q: q}
}

const modifierSelect = `
	SELECT m.id, m.name, m.created_at, v.id, v.name, v.created_at
	FROM modifiers m
	LEFT JOIN modifier_variations mv ON mv.modifier_id = m.id
	LEFT JOIN variations v ON v.id = mv.variation_id`

// Create persiste el modificador (sin variaciones).
func (r *ModifierRepo) Create(ctx context.Context, m *entity.Modifier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO modifiers (id, name, created_at) VALUES ($1, $2, $3)`, m.ID, m.Name, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert modifier: %w", err)
	}
	return nil
}

// GetByID obtiene el modificador con sus variaciones.
func (r *ModifierRepo) GetByID(ctx context.Context, id string) (*entity.Modifier, error) {
	list, err := queryModifiers(ctx, r.q, modifierSelect+` WHERE m.id = $1 ORDER BY mv.position`, id)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Rename cambia el nombre del modificador.
func (r *ModifierRepo) Rename(ctx context.Context, id, name string) error {
	if _, err := r.q.Exec(ctx, `UPDATE modifiers SET name = $2 WHERE id = $1`, id, name); err != nil {
		return fmt.Errorf("rename modifier: %w", err)
	}
	return nil
}

// Delete borra el modificador; sus asociaciones caen por cascada.
func (r *ModifierRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM modifiers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete modifier: %w", err)
	}
	return nil
}

// ListAll devuelve todos los modificadores con sus variaciones.
func (r *ModifierRepo) ListAll(ctx context.Context) ([]*entity.Modifier, error) {
	return queryModifiers(ctx, r.q, modifierSelect+` ORDER BY m.name, m.id, mv.position`)
}

// ListOrphans devuelve los modificadores que ningún ítem usa.
func (r *ModifierRepo) ListOrphans(ctx context.Context) ([]*entity.Modifier, error) {
	query := modifierSelect + `
		WHERE NOT EXISTS (SELECT 1 FROM item_modifiers im WHERE im.modifier_id = m.id)
		ORDER BY m.name, m.id, mv.position`
	return queryModifiers(ctx, r.q, query)
}

// CountItems cuántos ítems usan el modificador.
func (r *ModifierRepo) CountItems(ctx context.Context, id string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM item_modifiers WHERE modifier_id = $1`, id)
}

// AttachVariation asocia la variación; si ya estaba, actualiza la posición.
func (r *ModifierRepo) AttachVariation(ctx context.Context, modifierID, variationID string, position int) error {
	query := `
		INSERT INTO modifier_variations (modifier_id, variation_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (modifier_id, variation_id) DO UPDATE SET position = EXCLUDED.position`
	if _, err := r.q.Exec(ctx, query, modifierID, variationID, position); err != nil {
		return fmt.Errorf("attach variation: %w", err)
	}
	return nil
}

// DetachAllVariations quita todas las variaciones del modificador.
func (r *ModifierRepo) DetachAllVariations(ctx context.Context, modifierID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM modifier_variations WHERE modifier_id = $1`, modifierID); err != nil {
		return fmt.Errorf("detach variations: %w", err)
	}
	return nil
}

// VariationRepo implementación del puerto VariationRepository sobre PostgreSQL.
type VariationRepo struct {
	q Querier
}

// NewVariationRepository construye el adaptador de persistencia para variaciones.
func NewVariationRepository(q Querier) *VariationRepo {
	return &VariationRepo{q: q}
}

// Create persiste la variación. El nombre es único en todo el menú.
func (r *VariationRepo) Create(ctx context.Context, v *entity.Variation) error {
	_, err := r.q.Exec(ctx, `INSERT INTO variations (id, name, created_at) VALUES ($1, $2, $3)`, v.ID, v.Name, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert variation: %w", err)
	}
	return nil
}

// GetByName obtiene la variación por nombre exacto.
func (r *VariationRepo) GetByName(ctx context.Context, name string) (*entity.Variation, error) {
	var v entity.Variation
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM variations WHERE name = $1`, name).
		Scan(&v.ID, &v.Name, &v.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variation: %w", err)
	}
	return &v, nil
}

// Count total de variaciones.
func (r *VariationRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM variations`)
}

// queryModifiers agrupa filas (modificador, variación) consecutivas por modificador.
// La consulta debe venir ordenada de modo que las filas de un mismo modificador queden juntas.
func queryModifiers(ctx context.Context, q Querier, query string, args ...any) ([]*entity.Modifier, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list modifiers: %w", err)
	}
	defer rows.Close()

	var (
		out  []*entity.Modifier
		last *entity.Modifier
	)
	for rows.Next() {
		var (
			m         entity.Modifier
			vID, vNam *string
			vCreated  *time.Time
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &vID, &vNam, &vCreated); err != nil {
			return nil, fmt.Errorf("scan modifier: %w", err)
		}
		if last == nil || last.ID != m.ID {
			last = &m
			out = append(out, last)
		}
		if vID != nil {
			v := &entity.Variation{ID: *vID, Name: *vNam}
			if vCreated != nil {
				v.CreatedAt = *vCreated
			}
			last.Variations = append(last.Variations, v)
		}
	}
	return out, rows.Err()
}

func count(ctx context.Context, q Querier, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
