package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con una transacción concurrente")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError entrada mal formada (cantidad negativa, campo obligatorio ausente, tipo desconocido).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError rechazo de una salida; siempre lleva la cantidad disponible real.
type InsufficientStockError struct {
	MaterialID string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: solicitado %s, disponible %s", ErrInsufficientStock, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// DuplicateNameError ya existe un material con ese nombre (comparación sin mayúsculas).
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: material %q", ErrDuplicate, e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError la operación referencia un id inexistente.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotFound, e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransactionConflictError el backend abortó la transacción por concurrencia
// (serialization failure, deadlock, lock timeout). Es seguro reintentar.
type TransactionConflictError struct {
	Cause error
}

func (e *TransactionConflictError) Error() string {
	if e.Cause == nil {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s: %v", ErrConflict, e.Cause)
}

func (e *TransactionConflictError) Is(target error) bool { return target == ErrConflict }

func (e *TransactionConflictError) Unwrap() error { return e.Cause }

// IsRetryable indica si el error proviene de un conflicto transitorio entre escritores.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
