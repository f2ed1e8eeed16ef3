package postgres

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/buildstock-api/internal/domain"
)

// SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// builder squirrel con placeholders $n de PostgreSQL.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isConflict errores transitorios de concurrencia: serialización, deadlock o lock_timeout.
func isConflict(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// mapError traduce errores del driver a errores de dominio; el resto se devuelve envuelto por el llamador.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return &domain.TransactionConflictError{Cause: err}
	case codeUniqueViolation:
		return errors.Join(domain.ErrDuplicate, err)
	case codeForeignKeyViolation:
		return domain.NewValidationError(fkField(pgErr.ConstraintName), "referencia inexistente")
	case codeCheckViolation:
		return domain.NewValidationError(pgErr.ColumnName, "viola la restricción "+pgErr.ConstraintName)
	case codeInvalidText:
		return domain.NewValidationError("", "identificador con formato inválido")
	}
	return err
}

func fkField(constraint string) string {
	switch {
	case strings.Contains(constraint, "attributed_user_id"):
		return "user_id"
	case strings.Contains(constraint, "material_id"):
		return "material_id"
	}
	return constraint
}

func pgCodeConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
