package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para empleados.
type UserUseCase struct {
	store    repository.Store
	txRunner ports.TxRunner
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(store repository.Store, txRunner ports.TxRunner) *UserUseCase {
	return &UserUseCase{store: store, txRunner: txRunner}
}

// Create da de alta un empleado con un rol existente. La contraseña se guarda con bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	fullName := menu.TitleCase(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if fullName == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(s repository.Store) error {
		existing, err := s.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		role, err := resolveRole(ctx, s, in.Role)
		if err != nil {
			return err
		}
		user.RoleID = role.ID
		user.RoleName = role.Name
		return s.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update edita nombre, email, rol o contraseña. Los campos vacíos no cambian;
// si nada cambió devuelve ErrNoChanges.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var out *entity.User
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		user, err := s.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		updates := 0
		if name := menu.TitleCase(in.FullName); name != "" && name != user.FullName {
			user.FullName = name
			updates++
		}
		if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != user.Email {
			other, err := s.Users.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if other != nil {
				return domain.ErrEmailAlreadyExists
			}
			user.Email = email
			updates++
		}
		if strings.TrimSpace(in.Role) != "" {
			role, err := resolveRole(ctx, s, in.Role)
			if err != nil {
				return err
			}
			if role.ID != user.RoleID {
				user.RoleID = role.ID
				user.RoleName = role.Name
				updates++
			}
		}
		if in.Password != "" && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.PasswordHash = string(hash)
			updates++
		}
		if updates == 0 {
			return domain.ErrNoChanges
		}
		user.UpdatedAt = time.Now()
		out = user
		return s.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(out), nil
}

// Deactivate deja al empleado inactivo; ya no puede iniciar sesión.
func (uc *UserUseCase) Deactivate(ctx context.Context, id string) (*dto.UserResponse, error) {
	var out *entity.User
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		user, err := s.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if user.Status == entity.StatusInactive {
			return domain.ErrNoChanges
		}
		user.Status = entity.StatusInactive
		user.UpdatedAt = time.Now()
		out = user
		return s.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(out), nil
}

// GetByID obtiene un empleado por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// List lista los empleados activos.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.store.Users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

func resolveRole(ctx context.Context, s repository.Store, name string) (*entity.Role, error) {
	role, err := s.Roles.GetByName(ctx, menu.TitleCase(name))
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrNotFound, name)
	}
	return role, nil
}

// ToUserResponse convierte la entidad en su salida sin password.
func ToUserResponse(u *entity.User) *dto.UserResponse { return toUserResponse(u) }

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.RoleName,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
