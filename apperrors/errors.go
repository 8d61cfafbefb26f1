package apperrors

import "fmt"

// ValidationError reports malformed input. Fields maps a field name to the
// reason it was rejected.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError with a single top-level message.
func Validation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ValidationFields builds a ValidationError carrying per-field details.
func ValidationFields(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError reports an operation that is not legal for the entity's
// current status. Valid lists the statuses reachable from Current.
type InvalidStateError struct {
	Message string
	Current string
	Valid   []string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func InvalidState(msg, current string, valid ...string) *InvalidStateError {
	return &InvalidStateError{Message: msg, Current: current, Valid: valid}
}

// InsufficientStockError reports a settlement line whose quantity exceeds the
// product's available stock.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for '%s': requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
