package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/restaurante-pos/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint devuelve el nombre del constraint que falló, o "".
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// noRows traduce pgx.ErrNoRows a (nil, nil), la convención de los repositorios.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapUnique traduce una violación de unicidad al error de dominio según el constraint.
func mapUnique(err error) error {
	switch violatedConstraint(err) {
	case "uq_orders_started_user":
		return domain.ErrActiveOrderExists
	case "users_email_key":
		return domain.ErrEmailAlreadyExists
	default:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, violatedConstraint(err))
	}
}
