package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried on the wire, one per taxonomy type.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeSelection         = "selection_error"
	CodeInsufficientStock = "insufficient_stock"
	CodeConfiguration     = "configuration_error"
	CodeTransient         = "transient_error"
)

// ValidationError: malformed request shape or non-integer quantities.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError: missing product, dose, combo or payment method.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// SelectionError: a choosable category whose client allocation does not
// match the configured quota, or names an ineligible product.
type SelectionError struct {
	CategoryID string
	Quota      float64
	Allocated  float64
	Reason     string
}

func (e *SelectionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("category %s: %s", e.CategoryID, e.Reason)
	}
	diff := e.Allocated - e.Quota
	if diff < 0 {
		return fmt.Sprintf("category %s: allocation short by %g (allocated %g of %g)",
			e.CategoryID, -diff, e.Allocated, e.Quota)
	}
	return fmt.Sprintf("category %s: allocation exceeds quota by %g (allocated %g of %g)",
		e.CategoryID, diff, e.Allocated, e.Quota)
}

// InsufficientStockError: availability shortfall for one product.
type InsufficientStockError struct {
	ProductID string
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, required %d",
		e.ProductID, e.Available, e.Required)
}

// ConfigurationError: a data-integrity fault in the catalog (e.g. a
// fractioned product without container volume). Never retried.
type ConfigurationError struct {
	ProductID string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("product %s misconfigured: %s", e.ProductID, e.Reason)
}

// TransientError: transaction timeout or deadlock; safe for the caller
// to retry, state is unchanged.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ErrorList aggregates everything the basket validator found in one
// pass, so the checkout surface can show one entry per offending
// product or category.
type ErrorList []error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (l ErrorList) Unwrap() []error { return l }

// Flatten returns every leaf error, expanding nested ErrorLists.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var list ErrorList
	if errors.As(err, &list) {
		out := make([]error, 0, len(list))
		for _, e := range list {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// Code maps an error to its wire code.
func Code(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		se *SelectionError
		is *InsufficientStockError
		ce *ConfigurationError
		te *TransientError
	)
	// Checked in correction-priority order: when a list mixes kinds, the
	// code (and thus the HTTP status) reflects what the operator has to
	// fix first.
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &se):
		return CodeSelection
	case errors.As(err, &nf):
		return CodeNotFound
	case errors.As(err, &is):
		return CodeInsufficientStock
	case errors.As(err, &ce):
		return CodeConfiguration
	case errors.As(err, &te):
		return CodeTransient
	default:
		return "internal_error"
	}
}
