// Package fault defines the error taxonomy of the workbench core.
//
// Every error carries the operation and the subject (usually a part key or a
// memento type) it concerns and wraps an optional cause. Use errors.Is with
// the Err* sentinels to match a category regardless of the concrete cause.
package fault

import (
	"errors"
	"fmt"
)

// Category sentinels, to be matched with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrInitialization = errors.New("initialization error")
	ErrProtocol       = errors.New("protocol violation")
	ErrPersistence    = errors.New("persistence error")
)

type base struct {
	category error
	Op       string
	Subject  string
	Err      error
}

func (e *base) message() string {
	msg := e.category.Error() + ": " + e.Op
	if e.Subject != "" {
		msg += fmt.Sprintf(" '%s'", e.Subject)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%s)", e.Err.Error())
	}
	return msg
}

// ConfigurationError reports a request that can not be honored with the
// current registry or id scheme, e.g. a secondary id for a view that does not
// allow multiple instances.
type ConfigurationError struct{ base }

// InitializationError reports a part whose construction, initialization or
// control creation failed.
type InitializationError struct{ base }

// ProtocolViolation reports a request that breaks the site/presentation or
// activation protocol. The requested mutation was not applied.
type ProtocolViolation struct{ base }

// PersistenceError reports saved state that could not be read or applied.
type PersistenceError struct{ base }

func (e *ConfigurationError) Error() string  { return e.message() }
func (e *InitializationError) Error() string { return e.message() }
func (e *ProtocolViolation) Error() string   { return e.message() }
func (e *PersistenceError) Error() string    { return e.message() }

func (e *ConfigurationError) Unwrap() error  { return e.Err }
func (e *InitializationError) Unwrap() error { return e.Err }
func (e *ProtocolViolation) Unwrap() error   { return e.Err }
func (e *PersistenceError) Unwrap() error    { return e.Err }

func (e *ConfigurationError) Is(target error) bool  { return target == ErrConfiguration }
func (e *InitializationError) Is(target error) bool { return target == ErrInitialization }
func (e *ProtocolViolation) Is(target error) bool   { return target == ErrProtocol }
func (e *PersistenceError) Is(target error) bool    { return target == ErrPersistence }

// Configuration constructs a ConfigurationError.
func Configuration(op, subject string, cause error) *ConfigurationError {
	return &ConfigurationError{base{ErrConfiguration, op, subject, cause}}
}

// Initialization constructs an InitializationError.
func Initialization(op, subject string, cause error) *InitializationError {
	return &InitializationError{base{ErrInitialization, op, subject, cause}}
}

// Protocol constructs a ProtocolViolation.
func Protocol(op, subject string, cause error) *ProtocolViolation {
	return &ProtocolViolation{base{ErrProtocol, op, subject, cause}}
}

// Persistence constructs a PersistenceError.
func Persistence(op, subject string, cause error) *PersistenceError {
	return &PersistenceError{base{ErrPersistence, op, subject, cause}}
}
