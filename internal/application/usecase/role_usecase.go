package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// RoleUseCase alta y baja de roles de empleados.
type RoleUseCase struct {
	store    repository.Store
	txRunner ports.TxRunner
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(store repository.Store, txRunner ports.TxRunner) *RoleUseCase {
	return &RoleUseCase{store: store, txRunner: txRunner}
}

// Create crea un rol con nombre en formato título, único.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	name := menu.TitleCase(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := &entity.Role{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		existing, err := s.Roles.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		return s.Roles.Create(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	return &dto.RoleResponse{ID: role.ID, Name: role.Name}, nil
}

// Delete borra un rol sin empleados asignados (ErrInUse si tiene).
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(s repository.Store) error {
		role, err := s.Roles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if role == nil {
			return domain.ErrNotFound
		}
		n, err := s.Users.CountByRole(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrInUse
		}
		return s.Roles.Delete(ctx, id)
	})
}

// List lista los roles.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.store.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RoleResponse{ID: r.ID, Name: r.Name})
	}
	return out, nil
}
