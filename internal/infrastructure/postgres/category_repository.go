package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SectionRepository  = (*SectionRepo)(nil)
)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría (sin sus secciones).
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, status, created_at, updated_at FROM categories WHERE id = $1`, id)
}

// GetByName obtiene una categoría por nombre exacto (ya normalizado a mayúsculas).
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, status, created_at, updated_at FROM categories WHERE name = $1`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza nombre y estado.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `UPDATE categories SET name = $2, status = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Status, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// List devuelve las categorías con sus secciones, ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	filter := ""
	if activeOnly {
		filter = "WHERE status = 'active'"
	}
	rows, err := r.q.Query(ctx, `SELECT id, name, status, created_at, updated_at FROM categories `+filter+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	byID := map[string]*entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sections, err := querySections(ctx, r.q, `SELECT id, category_id, name, status, created_at FROM sections `+filter+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		if c, ok := byID[s.CategoryID]; ok {
			c.Sections = append(c.Sections, s)
		}
	}
	return list, nil
}

// Delete borra la categoría.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SectionRepo implementación del puerto SectionRepository sobre PostgreSQL.
type SectionRepo struct {
	q Querier
}

// NewSectionRepository construye el adaptador de persistencia para secciones.
func NewSectionRepository(q Querier) *SectionRepo {
	return &SectionRepo{q: q}
}

// Create persiste una sección. (category_id, name) es único.
func (r *SectionRepo) Create(ctx context.Context, s *entity.Section) error {
	query := `
		INSERT INTO sections (id, category_id, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CategoryID, s.Name, s.Status, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

// GetByID obtiene una sección por ID.
func (r *SectionRepo) GetByID(ctx context.Context, id string) (*entity.Section, error) {
	var s entity.Section
	err := r.q.QueryRow(ctx, `SELECT id, category_id, name, status, created_at FROM sections WHERE id = $1`, id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.Status, &s.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &s, nil
}

// ListByCategory devuelve todas las secciones de la categoría (activas e inactivas).
func (r *SectionRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Section, error) {
	return querySections(ctx, r.q,
		`SELECT id, category_id, name, status, created_at FROM sections WHERE category_id = $1 ORDER BY name`, categoryID)
}

// Update actualiza nombre y estado.
func (r *SectionRepo) Update(ctx context.Context, s *entity.Section) error {
	_, err := r.q.Exec(ctx, `UPDATE sections SET name = $2, status = $3 WHERE id = $1`, s.ID, s.Name, s.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete borra la sección.
func (r *SectionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

// DeleteByCategory borra todas las secciones de la categoría.
func (r *SectionRepo) DeleteByCategory(ctx context.Context, categoryID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sections WHERE category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}
	return nil
}

func querySections(ctx context.Context, q Querier, query string, args ...any) ([]*entity.Section, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()
	var out []*entity.Section
	for rows.Next() {
		var s entity.Section
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
