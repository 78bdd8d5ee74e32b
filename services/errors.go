package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoRecipeDefined   = errors.New("no recipe defined for sandwich")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrPromotionInvalid  = errors.New("promotion is invalid or expired")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInUse             = errors.New("record is still referenced")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrResourceNotFound  = errors.New("resource not found")
)

func notFound(entity string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

// Shortfall describes one ingredient that cannot cover a request. Missing is
// set when the recipe points at a resource row that no longer exists.
type Shortfall struct {
	ResourceID   uint            `json:"resource_id"`
	ResourceName string          `json:"resource_name,omitempty"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Missing      bool            `json:"missing,omitempty"`
}

func MissingResource(resourceID uint) Shortfall {
	return Shortfall{ResourceID: resourceID, Missing: true}
}

func InsufficientStock(resourceID uint, name string, required, available decimal.Decimal) Shortfall {
	return Shortfall{ResourceID: resourceID, ResourceName: name, Required: required, Available: available}
}

func (s Shortfall) String() string {
	if s.Missing {
		return fmt.Sprintf("resource %d is missing", s.ResourceID)
	}
	return fmt.Sprintf("%s: required %s, available %s", s.ResourceName, s.Required, s.Available)
}

// InsufficientIngredientsError lists every ingredient that blocked a request.
type InsufficientIngredientsError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientIngredientsError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = s.String()
	}
	return "insufficient ingredients: " + strings.Join(parts, "; ")
}

// StorageError wraps a database failure. The surrounding transaction has
// already been rolled back when it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr passes domain errors through untouched and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InsufficientIngredientsError
	var se *StorageError
	switch {
	case errors.As(err, &ie), errors.As(err, &se),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRecipeDefined),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrPromotionInvalid),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInUse),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrResourceNotFound):
		return err
	}
	return &StorageError{Op: op, Err: err}
}
