// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Class distinguishes failures worth retrying later from failures that will
// recur for the same criteria.
type Class int

const (
	// ClassTransient covers timeouts, network errors, throttling and server errors.
	ClassTransient Class = iota
	// ClassPermanent covers malformed criteria, rejected requests and undecodable responses.
	ClassPermanent
)

func (c Class) String() string {
	if c == ClassPermanent {
		return "permanent"
	}
	return "transient"
}

// Error is a classified adapter failure.
type Error struct {
	Adapter string
	Class   Class
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Adapter, e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient wraps err as a transient failure of adapter.
func Transient(adapter string, err error) *Error {
	return &Error{Adapter: adapter, Class: ClassTransient, Err: err}
}

// Permanent wraps err as a permanent failure of adapter.
func Permanent(adapter string, err error) *Error {
	return &Error{Adapter: adapter, Class: ClassPermanent, Err: err}
}

// ErrStatus is wrapped by failures caused by an HTTP status.
var ErrStatus = errors.New("unexpected HTTP status")

// ErrInvalidCriteria is wrapped by failures caused by malformed criteria.
var ErrInvalidCriteria = errors.New("invalid criteria")

// ErrContractViolation is wrapped when an adapter returns records that break
// the adapter contract: a kind outside its category or a payload that does
// not match the kind tag. Unlike adapter failures it aborts the run.
var ErrContractViolation = errors.New("adapter contract violation")

// StatusError classifies an HTTP status: 408, 429 and 5xx are transient,
// other statuses are permanent.
func StatusError(adapter string, status int) *Error {
	err := fmt.Errorf("%w: HTTP %d", ErrStatus, status)
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500 {
		return Transient(adapter, err)
	}
	return Permanent(adapter, err)
}

// ClassOf returns the class of err. Errors that carry no class, including
// timeouts and network errors, are transient.
func ClassOf(err error) Class {
	var se *Error
	if errors.As(err, &se) {
		return se.Class
	}
	if errors.Is(err, ErrInvalidCriteria) {
		return ClassPermanent
	}
	return ClassTransient
}

// checkRange rejects a range whose start is after its end. Open bounds are fine.
func checkRange(adapter string, r types.DateRange) error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return Permanent(adapter, fmt.Errorf("%w: date range starts %s after it ends %s",
			ErrInvalidCriteria, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")))
	}
	return nil
}
