package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// OrderUseCase ciclo de vida del pedido: iniciar, agregar/quitar líneas, enviar a cocina,
// cancelar y cerrar. La mesa cambia de estado en la misma transacción que el pedido.
type OrderUseCase struct {
	store      repository.Store
	txRunner   ports.TxRunner
	merger     *LineMerger
	receipts   ReceiptGenerator
	restaurant string
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso. receipts puede ser nil si no se generan comprobantes.
func NewOrderUseCase(store repository.Store, txRunner ports.TxRunner, receipts ReceiptGenerator, restaurant string) *OrderUseCase {
	return &OrderUseCase{
		store:      store,
		txRunner:   txRunner,
		merger:     NewLineMerger(),
		receipts:   receipts,
		restaurant: restaurant,
		now:        time.Now,
	}
}

// Start abre un pedido para el usuario en la mesa indicada. Un usuario solo puede tener un
// pedido started: si ya lo tiene devuelve *domain.ActiveOrderError con su id.
func (uc *OrderUseCase) Start(ctx context.Context, userID string, in dto.StartOrderRequest) (*dto.OrderResponse, error) {
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" || in.TableID == "" {
		return nil, fmt.Errorf("%w: mesa y nombre del cliente son obligatorios", domain.ErrInvalidInput)
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		active, err := s.Orders.GetStartedByUser(ctx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return &domain.ActiveOrderError{OrderID: active.ID}
		}
		table, err := s.Tables.GetForUpdate(ctx, in.TableID)
		if err != nil {
			return err
		}
		if table == nil {
			return fmt.Errorf("%w: mesa", domain.ErrNotFound)
		}
		if !table.AcceptsOrders() {
			return domain.ErrTableUnavailable
		}
		if table.Occupy() {
			if err := s.Tables.UpdateStatus(ctx, table.ID, table.Status); err != nil {
				return err
			}
		}
		order = &entity.Order{
			ID:           uuid.New().String(),
			CustomerName: customer,
			Status:       entity.OrderStarted,
			TableID:      table.ID,
			UserID:       userID,
			CreatedAt:    uc.now(),
		}
		return s.Orders.Create(ctx, order)
	})
	if err != nil {
		var active *domain.ActiveOrderError
		if errors.Is(err, domain.ErrActiveOrderExists) && !errors.As(err, &active) {
			// otra petición ganó la carrera; la tx ya se deshizo
			if cur, _ := uc.store.Orders.GetStartedByUser(ctx, userID); cur != nil {
				return nil, &domain.ActiveOrderError{OrderID: cur.ID}
			}
		}
		return nil, err
	}
	return toOrderResponse(order), nil
}

// AddLine agrega un ítem al pedido o suma la cantidad a una línea equivalente.
func (uc *OrderUseCase) AddLine(ctx context.Context, orderID string, in dto.AddOrderLineRequest) (*dto.AddLineResponse, error) {
	var (
		line   *entity.OrderItem
		merged bool
	)
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		order, err := s.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStarted {
			return fmt.Errorf("%w: solo se agregan ítems a un pedido iniciado", domain.ErrInvalidTransition)
		}
		line, merged, err = uc.merger.AddOrUpdate(ctx, s, order, LineInput{
			MenuItemID: in.MenuItemID,
			Quantity:   in.Quantity,
			Notes:      strings.TrimSpace(in.Notes),
			Variations: in.Variations,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AddLineResponse{Line: toLineResponse(line), Merged: merged}, nil
}

// DeleteLine quita una línea de un pedido iniciado. Quitar la última no cancela el pedido.
func (uc *OrderUseCase) DeleteLine(ctx context.Context, orderID, lineID string) error {
	return uc.txRunner.Run(ctx, func(s repository.Store) error {
		order, err := s.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStarted {
			return fmt.Errorf("%w: el pedido ya fue enviado", domain.ErrInvalidTransition)
		}
		line, err := s.OrderItems.GetByID(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != order.ID {
			return fmt.Errorf("%w: línea del pedido", domain.ErrNotFound)
		}
		return s.OrderItems.Delete(ctx, line.ID)
	})
}

// Submit envía el pedido a cocina. Requiere al menos una línea.
func (uc *OrderUseCase) Submit(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		order, lines, err := lockOrder(ctx, s, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStarted {
			return fmt.Errorf("%w: no se puede enviar un pedido %s", domain.ErrInvalidTransition, order.Status)
		}
		if !order.CanSubmit(lines) {
			return domain.ErrEmptyOrder
		}
		order.Submit(uc.now())
		return s.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, orderID)
}

// Cancel cancela un pedido iniciado y libera la mesa. Si no tiene líneas el pedido se
// elimina en vez de quedar como cancelled.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*dto.CancelOrderResponse, error) {
	out := &dto.CancelOrderResponse{ID: orderID}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		order, lines, err := lockOrder(ctx, s, orderID)
		if err != nil {
			return err
		}
		if !order.CanCancel() {
			return fmt.Errorf("%w: no se puede cancelar un pedido %s", domain.ErrInvalidTransition, order.Status)
		}
		if lines == 0 {
			if err := s.Orders.Delete(ctx, order.ID); err != nil {
				return err
			}
			out.Deleted = true
		} else {
			order.Cancel(uc.now())
			if err := s.Orders.Update(ctx, order); err != nil {
				return err
			}
			out.Status = order.Status
		}
		return releaseTable(ctx, s, order.TableID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close cierra el pedido y libera la mesa. Desde started solo si ya tiene líneas.
func (uc *OrderUseCase) Close(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		order, lines, err := lockOrder(ctx, s, orderID)
		if err != nil {
			return err
		}
		if !order.CanClose(lines) {
			if order.Status == entity.OrderStarted {
				return domain.ErrEmptyOrder
			}
			return fmt.Errorf("%w: no se puede cerrar un pedido %s", domain.ErrInvalidTransition, order.Status)
		}
		order.Close(uc.now())
		if err := s.Orders.Update(ctx, order); err != nil {
			return err
		}
		return releaseTable(ctx, s, order.TableID)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, orderID)
}

// Current devuelve el pedido started del usuario (ErrNotFound si no tiene).
func (uc *OrderUseCase) Current(ctx context.Context, userID string) (*dto.OrderResponse, error) {
	order, err := uc.store.Orders.GetStartedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withLines(ctx, order)
}

// Get devuelve el pedido con sus líneas, variaciones y total.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withLines(ctx, order)
}

// List lista pedidos por estado; sin estados devuelve los abiertos (started y submitted).
func (uc *OrderUseCase) List(ctx context.Context, statuses ...string) ([]dto.OrderResponse, error) {
	if len(statuses) == 0 {
		statuses = []string{entity.OrderStarted, entity.OrderSubmitted}
	}
	for _, st := range statuses {
		switch st {
		case entity.OrderStarted, entity.OrderSubmitted, entity.OrderCancelled, entity.OrderClosed:
		default:
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, st)
		}
	}
	orders, err := uc.store.Orders.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		r, err := uc.withLines(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// Summary pedidos abiertos más el total histórico de los pedidos cerrados.
func (uc *OrderUseCase) Summary(ctx context.Context) (*dto.OrderSummaryResponse, error) {
	open, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := uc.store.Orders.TotalByStatus(ctx, entity.OrderClosed)
	if err != nil {
		return nil, fmt.Errorf("total de pedidos cerrados: %w", err)
	}
	return &dto.OrderSummaryResponse{Open: open, LifetimeTotal: total}, nil
}

// Receipt genera el comprobante PDF del pedido. Devuelve los bytes y el nombre de archivo.
func (uc *OrderUseCase) Receipt(ctx context.Context, orderID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("%w: comprobantes no configurados", domain.ErrConflict)
	}
	order, err := uc.store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	lines, err := uc.store.OrderItems.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, "", fmt.Errorf("líneas del pedido: %w", err)
	}
	if len(lines) == 0 {
		return nil, "", domain.ErrEmptyOrder
	}
	order.Items = lines
	r := &Receipt{
		Restaurant:   uc.restaurant,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
		ClosedAt:     order.ClosedAt,
		Lines:        lines,
		Total:        order.Total(),
	}
	if t, err := uc.store.Tables.GetByID(ctx, order.TableID); err == nil && t != nil {
		r.TableName = t.Name
	}
	if u, err := uc.store.Users.GetByID(ctx, order.UserID); err == nil && u != nil {
		r.EmployeeName = u.FullName
	}
	pdf, err := uc.receipts.Generate(r)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, "pedido-" + order.ID[:8] + ".pdf", nil
}

func (uc *OrderUseCase) withLines(ctx context.Context, order *entity.Order) (*dto.OrderResponse, error) {
	lines, err := uc.store.OrderItems.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("líneas del pedido: %w", err)
	}
	order.Items = lines
	return toOrderResponse(order), nil
}

// lockOrder bloquea el pedido y cuenta sus líneas.
func lockOrder(ctx context.Context, s repository.Store, orderID string) (*entity.Order, int, error) {
	order, err := s.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}
	if order == nil {
		return nil, 0, domain.ErrNotFound
	}
	lines, err := s.OrderItems.CountByOrder(ctx, order.ID)
	if err != nil {
		return nil, 0, err
	}
	return order, lines, nil
}

// releaseTable devuelve la mesa a available si estaba ocupada. La de para llevar nunca se ocupa.
func releaseTable(ctx context.Context, s repository.Store, tableID string) error {
	table, err := s.Tables.GetForUpdate(ctx, tableID)
	if err != nil {
		return err
	}
	if table == nil || !table.Release() {
		return nil
	}
	return s.Tables.UpdateStatus(ctx, table.ID, table.Status)
}

func toLineResponse(l *entity.OrderItem) dto.OrderLineResponse {
	return dto.OrderLineResponse{
		ID:         l.ID,
		MenuItemID: l.MenuItemID,
		ItemName:   l.ItemName,
		Quantity:   l.Quantity,
		Notes:      l.Notes,
		Variations: l.VariationNames(),
		Subtotal:   l.Subtotal,
	}
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		TableID:      o.TableID,
		UserID:       o.UserID,
		CreatedAt:    o.CreatedAt,
		SubmittedAt:  o.SubmittedAt,
		ClosedAt:     o.ClosedAt,
		Lines:        make([]dto.OrderLineResponse, 0, len(o.Items)),
		Total:        o.Total(),
	}
	for _, l := range o.Items {
		out.Lines = append(out.Lines, toLineResponse(l))
	}
	return out
}
