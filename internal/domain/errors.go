package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInUse              = errors.New("el recurso está en uso")
	ErrNoChanges          = errors.New("no se detectaron cambios")

	// Pedidos
	ErrActiveOrderExists = errors.New("el usuario ya tiene un pedido iniciado")
	ErrEmptyOrder        = errors.New("el pedido no tiene ítems")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrTableUnavailable  = errors.New("la mesa no está disponible")
)

// ActiveOrderError envuelve ErrActiveOrderExists con el ID del pedido ya iniciado,
// para que la capa HTTP pueda redirigir al cliente a ese pedido.
type ActiveOrderError struct {
	OrderID string
}

func (e *ActiveOrderError) Error() string { return ErrActiveOrderExists.Error() + ": " + e.OrderID }

func (e *ActiveOrderError) Unwrap() error { return ErrActiveOrderExists }
