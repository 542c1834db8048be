package entity

import "time"

// RoleOwner es el rol con acceso a la administración (menú, mesas, personal).
const RoleOwner = "Owner"

// Role agrupa permisos de empleados. Name en formato título y único.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// User representa un empleado. El ID es su número de empleado para iniciar sesión.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Status       string // active, inactive
	RoleID       string
	RoleName     string // se llena en lecturas (JOIN roles)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
