// Package errors provides the delivery failure taxonomy used by the
// flush pipeline.
//
// Every failed delivery is classified into one of two categories:
//   - Transient: retry will likely help; the batch is preserved and
//     retried on the next flush trigger.
//   - Permanent: retry won't help; the batch is dropped and the failure
//     reported through the logging hooks.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Category represents how a delivery failure should be handled.
type Category int

const (
	// CategoryTransient indicates retry will likely help.
	// Examples: network unreachable, server 5xx, rate limits, timeouts.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	// Examples: authentication failures, batches rejected as malformed.
	CategoryPermanent
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// DeliveryError wraps a delivery failure with its classification context.
type DeliveryError struct {
	// StatusCode is the HTTP status, or 0 when the request never
	// completed.
	StatusCode int

	// Endpoint is the ingestion URL the batch was sent to.
	Endpoint string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Endpoint != "":
		return fmt.Sprintf("delivery to %s failed: HTTP %d", e.Endpoint, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("delivery failed: HTTP %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("delivery failed: %v", e.Err)
	default:
		return "delivery failed"
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// CategorizedError pins an explicit category onto an error, overriding
// status-based classification.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this failure should be handled.
	Category Category

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s)", e.Context, e.Err, e.Category)
	}
	return fmt.Sprintf("%s (category: %s)", e.Err, e.Category)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// Transient creates an explicitly transient failure.
func Transient(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryTransient, Context: context}
}

// Permanent creates an explicitly permanent failure.
func Permanent(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryPermanent, Context: context}
}

// CategorizeStatus classifies an HTTP response status.
func CategorizeStatus(status int) Category {
	switch status {
	case 408, 429:
		return CategoryTransient
	}
	if status >= 500 {
		return CategoryTransient // server errors are often transient
	}
	return CategoryPermanent
}

// Categorize determines how a delivery failure should be handled.
// nil is classified permanent; callers check for success before
// classifying.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent // shouldn't happen, fail safe
	}

	// Check for already-categorized errors
	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	// Check for delivery errors with a status code
	var delErr *DeliveryError
	if errors.As(err, &delErr) {
		if delErr.StatusCode != 0 {
			return CategorizeStatus(delErr.StatusCode)
		}
		if delErr.Err != nil {
			return Categorize(delErr.Err)
		}
		return CategoryTransient
	}

	// Cancelled or timed-out requests can be retried when the next
	// trigger fires
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient
	}

	// Network-level failures are transient
	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryTransient
	}

	// Unknown errors are permanent (fail safe)
	return CategoryPermanent
}

// IsRetryable reports whether the failed batch should be retained for a
// later attempt.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
