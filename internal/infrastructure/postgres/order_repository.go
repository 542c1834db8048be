package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.OrderItemRepository = (*OrderItemRepo)(nil)
)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT id, customer_name, status, table_id, user_id, created_at, submitted_at, closed_at
	FROM orders`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.Status, &o.TableID, &o.UserID, &o.CreatedAt, &o.SubmittedAt, &o.ClosedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste el pedido. El índice uq_orders_started_user garantiza un solo started por empleado.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, status, table_id, user_id, created_at, submitted_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerName, o.Status, o.TableID, o.UserID, o.CreatedAt, o.SubmittedAt, o.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido (sin líneas).
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando su fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE id = $1 FOR UPDATE`, id)
}

// GetStartedByUser obtiene el pedido started del empleado, si lo hay.
func (r *OrderRepo) GetStartedByUser(ctx context.Context, userID string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE user_id = $1 AND status = 'started'`, userID)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update persiste estado y marcas de tiempo.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $2, status = $3, table_id = $4, submitted_at = $5, closed_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.CustomerName, o.Status, o.TableID, o.SubmittedAt, o.ClosedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return mapUnique(err)
		}
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el pedido; las líneas caen por cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ListByStatus devuelve los pedidos en cualquiera de los estados, del más antiguo al más nuevo.
func (r *OrderRepo) ListByStatus(ctx context.Context, statuses ...string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, orderSelect+` WHERE status = ANY($1) ORDER BY created_at, id`, statuses)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CountByTable cuántos pedidos (de cualquier estado) referencian la mesa.
func (r *OrderRepo) CountByTable(ctx context.Context, tableID string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM orders WHERE table_id = $1`, tableID)
}

// TotalByStatus suma los subtotales de las líneas de los pedidos en el estado.
func (r *OrderRepo) TotalByStatus(ctx context.Context, status string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(oi.subtotal), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, status).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total by status: %w", err)
	}
	return total, nil
}

// OrderItemRepo implementación del puerto OrderItemRepository sobre PostgreSQL.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador de persistencia para líneas de pedido.
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

const orderItemSelect = `
	SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.notes, oi.subtotal, oi.created_at, oi.updated_at
	FROM order_items oi
	JOIN menu_items mi ON mi.id = oi.menu_item_id`

// Create persiste la línea (sin variaciones).
func (r *OrderItemRepo) Create(ctx context.Context, l *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, notes, subtotal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrderID, l.MenuItemID, l.Quantity, l.Notes, l.Subtotal, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la línea con sus variaciones.
func (r *OrderItemRepo) GetByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	list, err := r.list(ctx, orderItemSelect+` WHERE oi.id = $1`, id)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Update persiste cantidad, notas y subtotal.
func (r *OrderItemRepo) Update(ctx context.Context, l *entity.OrderItem) error {
	query := `UPDATE order_items SET quantity = $2, notes = $3, subtotal = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Quantity, l.Notes, l.Subtotal, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la línea y sus variaciones.
func (r *OrderItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

// ListByOrder devuelve las líneas del pedido en orden de creación.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	return r.list(ctx, orderItemSelect+` WHERE oi.order_id = $1 ORDER BY oi.created_at, oi.id`, orderID)
}

// ListMatching devuelve las líneas candidatas a fusionarse: mismo ítem y mismas notas.
func (r *OrderItemRepo) ListMatching(ctx context.Context, orderID, menuItemID, notes string) ([]*entity.OrderItem, error) {
	query := orderItemSelect + `
		WHERE oi.order_id = $1 AND oi.menu_item_id = $2 AND oi.notes = $3
		ORDER BY oi.created_at, oi.id`
	return r.list(ctx, query, orderID, menuItemID, notes)
}

// CountByOrder cuántas líneas tiene el pedido.
func (r *OrderItemRepo) CountByOrder(ctx context.Context, orderID string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID)
}

// CountByMenuItem cuántas líneas referencian el ítem.
func (r *OrderItemRepo) CountByMenuItem(ctx context.Context, menuItemID string) (int, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM order_items WHERE menu_item_id = $1`, menuItemID)
}

// AttachVariation registra una variación elegida en la línea.
func (r *OrderItemRepo) AttachVariation(ctx context.Context, orderItemID, variationID string) error {
	query := `
		INSERT INTO order_item_variations (order_item_id, variation_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(ctx, query, orderItemID, variationID); err != nil {
		return fmt.Errorf("attach order item variation: %w", err)
	}
	return nil
}

// list carga las líneas y luego sus variaciones con una segunda consulta.
func (r *OrderItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	var (
		out  []*entity.OrderItem
		ids  []string
		byID = map[string]*entity.OrderItem{}
	)
	for rows.Next() {
		var l entity.OrderItem
		err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.ItemName, &l.Quantity, &l.Notes, &l.Subtotal, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &l)
		ids = append(ids, l.ID)
		byID[l.ID] = &l
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	vrows, err := r.q.Query(ctx, `
		SELECT oiv.order_item_id, v.id, v.name, v.created_at
		FROM order_item_variations oiv
		JOIN variations v ON v.id = oiv.variation_id
		WHERE oiv.order_item_id = ANY($1)
		ORDER BY v.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("list order item variations: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var (
			lineID string
			v      entity.Variation
		)
		if err := vrows.Scan(&lineID, &v.ID, &v.Name, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item variation: %w", err)
		}
		if l, ok := byID[lineID]; ok {
			l.Variations = append(l.Variations, &v)
		}
	}
	return out, vrows.Err()
}
