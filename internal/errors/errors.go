// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Standard sentinel errors
var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidTransition      = errors.New("invalid position transition")
	ErrVenueRejected          = errors.New("order rejected by venue")
	ErrTransient              = errors.New("transient venue error")
	ErrReconciliationMismatch = errors.New("position disagrees with venue balance")
	ErrInsufficientData       = errors.New("insufficient data for calculation")
	ErrConfigInvalid          = errors.New("invalid configuration")
	ErrSymbolNotFound         = errors.New("symbol not found")
)

// VenueError represents an error reported by the execution venue. Code
// carries the venue's own error code when one was returned.
type VenueError struct {
	Code    string
	Message string
	Err     error
}

func (e *VenueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("venue error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("venue error [%s]: %s", e.Code, e.Message)
}

func (e *VenueError) Unwrap() error {
	return e.Err
}

// NewVenueError creates a new VenueError.
func NewVenueError(code, message string, err error) *VenueError {
	return &VenueError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// OrderError represents an error related to order operations.
type OrderError struct {
	Symbol string
	Action string
	Reason string
	Err    error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order error %s %s: %s: %v", e.Action, e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("order error %s %s: %s", e.Action, e.Symbol, e.Reason)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError.
func NewOrderError(symbol, action, reason string, err error) *OrderError {
	return &OrderError{
		Symbol: symbol,
		Action: action,
		Reason: reason,
		Err:    err,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTransient reports whether err is a network or timeout failure whose
// order outcome is unknown and which is eligible for retry. Venue
// rejections are never transient: the call is known to have had no effect.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, ErrVenueRejected) || errors.Is(err, ErrInsufficientBalance) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Venue-side throttling and gateway failures come back as plain
	// wrapped messages from the SDK.
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{"timeout", "connection reset", "connection refused", "too many requests", "service unavailable", "bad gateway"} {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
