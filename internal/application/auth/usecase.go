package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
	"github.com/jhoicas/restaurante-pos/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SetupConfig datos de la primera puesta en marcha.
type SetupConfig struct {
	OwnerRole    string
	TakeOutTable string
	Email        string
	Password     string
}

// AuthUseCase casos de uso de autenticación: puesta en marcha y login.
type AuthUseCase struct {
	store    repository.Store
	txRunner ports.TxRunner
	jwtCfg   JWTConfig
	setup    SetupConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store repository.Store, txRunner ports.TxRunner, jwtCfg JWTConfig, setup SetupConfig) *AuthUseCase {
	if setup.OwnerRole == "" {
		setup.OwnerRole = entity.RoleOwner
	}
	return &AuthUseCase{store: store, txRunner: txRunner, jwtCfg: jwtCfg, setup: setup}
}

// Setup crea, si no hay ningún empleado, el rol dueño, la cuenta inicial y la mesa para llevar.
// Devuelve ErrConflict si el sistema ya fue configurado.
func (uc *AuthUseCase) Setup(ctx context.Context) (*dto.LoginResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uc.setup.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var user *entity.User
	err = uc.txRunner.Run(ctx, func(s repository.Store) error {
		n, err := s.Users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrConflict
		}
		role, err := s.Roles.GetByName(ctx, menu.TitleCase(uc.setup.OwnerRole))
		if err != nil {
			return err
		}
		if role == nil {
			role = &entity.Role{ID: uuid.New().String(), Name: menu.TitleCase(uc.setup.OwnerRole), CreatedAt: now}
			if err := s.Roles.Create(ctx, role); err != nil {
				return err
			}
		}
		user = &entity.User{
			ID:           uuid.New().String(),
			FullName:     role.Name,
			Email:        strings.ToLower(uc.setup.Email),
			PasswordHash: string(hash),
			Status:       entity.StatusActive,
			RoleID:       role.ID,
			RoleName:     role.Name,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return err
		}
		name := menu.TitleCase(uc.setup.TakeOutTable)
		existing, err := s.Tables.GetByName(ctx, name)
		if err != nil || existing != nil {
			return err
		}
		return s.Tables.Create(ctx, &entity.Table{
			ID:        uuid.New().String(),
			Name:      name,
			Status:    entity.TableAvailable,
			IsTakeOut: true,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica número de empleado (o email) y password, y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	ident := strings.TrimSpace(in.EmployeeID)
	var (
		user *entity.User
		err  error
	)
	if _, perr := uuid.Parse(ident); perr == nil {
		user, err = uc.store.Users.GetByID(ctx, ident)
	} else {
		user, err = uc.store.Users.GetByEmail(ctx, strings.ToLower(ident))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.StatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.RoleName, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}
