package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// TableUseCase aplica reglas de negocio para las mesas del salón.
type TableUseCase struct {
	store    repository.Store
	txRunner ports.TxRunner
}

// NewTableUseCase construye el caso de uso.
func NewTableUseCase(store repository.Store, txRunner ports.TxRunner) *TableUseCase {
	return &TableUseCase{store: store, txRunner: txRunner}
}

// Create crea una mesa disponible. El nombre se normaliza a formato título y es único.
func (uc *TableUseCase) Create(ctx context.Context, in dto.TableRequest) (*dto.TableResponse, error) {
	name := menu.TitleCase(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	table := &entity.Table{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    entity.TableAvailable,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		existing, err := s.Tables.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		return s.Tables.Create(ctx, table)
	})
	if err != nil {
		return nil, err
	}
	return toTableResponse(table), nil
}

// Remove da de baja la mesa: inactiva si algún pedido la referencia, si no la borra.
// La mesa para llevar no se puede quitar.
func (uc *TableUseCase) Remove(ctx context.Context, id string) (*dto.RemoveResponse, error) {
	out := &dto.RemoveResponse{ID: id}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		table, err := s.Tables.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if table == nil {
			return domain.ErrNotFound
		}
		if table.IsTakeOut {
			return fmt.Errorf("%w: la mesa para llevar no se puede quitar", domain.ErrConflict)
		}
		if table.Status == entity.TableUnavailable {
			return fmt.Errorf("%w: la mesa tiene un pedido en curso", domain.ErrInUse)
		}
		n, err := s.Orders.CountByTable(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			out.Status = entity.TableInactive
			return s.Tables.UpdateStatus(ctx, id, entity.TableInactive)
		}
		out.Deleted = true
		return s.Tables.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista todas las mesas.
func (uc *TableUseCase) List(ctx context.Context) ([]dto.TableResponse, error) {
	list, err := uc.store.Tables.List(ctx)
	if err != nil {
		return nil, err
	}
	return toTableResponses(list), nil
}

// ListAvailable lista las mesas donde se puede iniciar un pedido (incluye la de para llevar).
func (uc *TableUseCase) ListAvailable(ctx context.Context) ([]dto.TableResponse, error) {
	list, err := uc.store.Tables.List(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]*entity.Table, 0, len(list))
	for _, t := range list {
		if t.AcceptsOrders() {
			open = append(open, t)
		}
	}
	return toTableResponses(open), nil
}

func toTableResponses(list []*entity.Table) []dto.TableResponse {
	out := make([]dto.TableResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTableResponse(t))
	}
	return out
}

func toTableResponse(t *entity.Table) *dto.TableResponse {
	return &dto.TableResponse{ID: t.ID, Name: t.Name, Status: t.Status, IsTakeOut: t.IsTakeOut}
}
