package domain

import (
	"errors"
	"fmt"
)

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
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// StockConflictError indica que un ajuste dejaría la cantidad en negativo.
// Lleva el detalle que el cliente offline necesita para reconciliar.
type StockConflictError struct {
	DrugID          string
	CurrentQuantity int
	RequestedDelta  int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: actual %d, delta %d", e.DrugID, e.CurrentQuantity, e.RequestedDelta)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockConflictError) Unwrap() error { return ErrInsufficientStock }

// Details devuelve el detalle serializable para el resultado de sincronización.
func (e *StockConflictError) Details() map[string]any {
	return map[string]any{
		"drugId":          e.DrugID,
		"currentQuantity": e.CurrentQuantity,
		"requestedDelta":  e.RequestedDelta,
	}
}

// StaleStockError indica que la precondición expectedQuantity no coincide con
// la cantidad autoritativa del servidor (vista desactualizada del cliente).
type StaleStockError struct {
	DrugID           string
	ExpectedQuantity int
	ServerQuantity   int
}

func (e *StaleStockError) Error() string {
	return fmt.Sprintf("conflicto de stock en %s: esperado %d, servidor %d", e.DrugID, e.ExpectedQuantity, e.ServerQuantity)
}

// Unwrap permite errors.Is(err, ErrConflict).
func (e *StaleStockError) Unwrap() error { return ErrConflict }

// Details devuelve el detalle serializable para el resultado de sincronización.
func (e *StaleStockError) Details() map[string]any {
	return map[string]any{
		"drugId":           e.DrugID,
		"expectedQuantity": e.ExpectedQuantity,
		"serverQuantity":   e.ServerQuantity,
	}
}
