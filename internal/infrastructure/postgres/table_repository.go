package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

var _ repository.TableRepository = (*TableRepo)(nil)

// TableRepo implementación del puerto TableRepository sobre PostgreSQL.
type TableRepo struct {
	q Querier
}

// NewTableRepository construye el adaptador de persistencia para mesas.
func NewTableRepository(q Querier) *TableRepo {
	return &TableRepo{q: q}
}

const tableSelect = `SELECT id, name, status, is_take_out, created_at FROM pos_tables`

func scanTable(row interface{ Scan(...any) error }) (*entity.Table, error) {
	var t entity.Table
	if err := row.Scan(&t.ID, &t.Name, &t.Status, &t.IsTakeOut, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una mesa.
func (r *TableRepo) Create(ctx context.Context, t *entity.Table) error {
	query := `
		INSERT INTO pos_tables (id, name, status, is_take_out, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Status, t.IsTakeOut, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

// GetByID obtiene una mesa por ID.
func (r *TableRepo) GetByID(ctx context.Context, id string) (*entity.Table, error) {
	return r.getOne(ctx, tableSelect+` WHERE id = $1`, id)
}

// GetForUpdate obtiene la mesa bloqueando su fila hasta el fin de la tx.
func (r *TableRepo) GetForUpdate(ctx context.Context, id string) (*entity.Table, error) {
	return r.getOne(ctx, tableSelect+` WHERE id = $1 FOR UPDATE`, id)
}

// GetByName obtiene una mesa por nombre exacto.
func (r *TableRepo) GetByName(ctx context.Context, name string) (*entity.Table, error) {
	return r.getOne(ctx, tableSelect+` WHERE name = $1`, name)
}

func (r *TableRepo) getOne(ctx context.Context, query string, arg any) (*entity.Table, error) {
	t, err := scanTable(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

// UpdateStatus cambia el estado de la mesa.
func (r *TableRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE pos_tables SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todas las mesas ordenadas por nombre.
func (r *TableRepo) List(ctx context.Context) ([]*entity.Table, error) {
	return r.list(ctx, tableSelect+` ORDER BY name`)
}

// ListByStatus devuelve las mesas en el estado dado.
func (r *TableRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Table, error) {
	return r.list(ctx, tableSelect+` WHERE status = $1 ORDER BY name`, status)
}

func (r *TableRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Table, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var out []*entity.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete borra la mesa.
func (r *TableRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pos_tables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	return nil
}
