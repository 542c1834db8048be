package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo implementación del puerto MenuItemRepository sobre PostgreSQL.
type MenuItemRepo struct {
	q Querier
}

// NewMenuItemRepository construye el adaptador de persistencia para ítems del menú.
func NewMenuItemRepository(q Querier) *MenuItemRepo {
	return &MenuItemRepo{q: q}
}

const menuItemColumns = `id, name, price, description, category_id, section_id, status, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.CategoryID, &m.SectionID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste el ítem (sin modificadores).
func (r *MenuItemRepo) Create(ctx context.Context, m *entity.MenuItem) error {
	query := `
		INSERT INTO menu_items (` + menuItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Price, m.Description, m.CategoryID, m.SectionID, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *MenuItemRepo) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.getOne(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
}

// GetByName obtiene un ítem por nombre exacto.
func (r *MenuItemRepo) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return r.getOne(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE name = $1`, name)
}

func (r *MenuItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.MenuItem, error) {
	m, err := scanMenuItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// Update actualiza los datos del ítem.
func (r *MenuItemRepo) Update(ctx context.Context, m *entity.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, price = $3, description = $4, category_id = $5, section_id = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Price, m.Description, m.CategoryID, m.SectionID, m.Status, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

// List devuelve los ítems ordenados por nombre.
func (r *MenuItemRepo) List(ctx context.Context, activeOnly bool) ([]*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if activeOnly {
		query += ` WHERE status = 'active'`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var list []*entity.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete borra el ítem; item_modifiers cae por cascada.
func (r *MenuItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

// CountByCategory cuenta los ítems de la categoría.
func (r *MenuItemRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM menu_items WHERE category_id = $1`, categoryID)
}

// CountBySection cuenta los ítems de la sección.
func (r *MenuItemRepo) CountBySection(ctx context.Context, sectionID string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM menu_items WHERE section_id = $1`, sectionID)
}

// ListModifiers devuelve los modificadores del ítem con sus variaciones, por posición.
func (r *MenuItemRepo) ListModifiers(ctx context.Context, itemID string) ([]*entity.Modifier, error) {
	query := `
		SELECT m.id, m.name, m.created_at, v.id, v.name, v.created_at
		FROM item_modifiers im
		JOIN modifiers m ON m.id = im.modifier_id
		LEFT JOIN modifier_variations mv ON mv.modifier_id = m.id
		LEFT JOIN variations v ON v.id = mv.variation_id
		WHERE im.item_id = $1
		ORDER BY im.position, m.id, mv.position`
	return queryModifiers(ctx, r.q, query, itemID)
}

// AttachModifier asocia el modificador al ítem; si ya estaba, actualiza la posición.
func (r *MenuItemRepo) AttachModifier(ctx context.Context, itemID, modifierID string, position int) error {
	query := `
		INSERT INTO item_modifiers (item_id, modifier_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, modifier_id) DO UPDATE SET position = EXCLUDED.position`
	if _, err := r.q.Exec(ctx, query, itemID, modifierID, position); err != nil {
		return fmt.Errorf("attach modifier: %w", err)
	}
	return nil
}

// DetachModifier quita la asociación ítem-modificador.
func (r *MenuItemRepo) DetachModifier(ctx context.Context, itemID, modifierID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM item_modifiers WHERE item_id = $1 AND modifier_id = $2`, itemID, modifierID)
	if err != nil {
		return fmt.Errorf("detach modifier: %w", err)
	}
	return nil
}

// DetachAllModifiers quita todos los modificadores del ítem.
func (r *MenuItemRepo) DetachAllModifiers(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM item_modifiers WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("detach modifiers: %w", err)
	}
	return nil
}
