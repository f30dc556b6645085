package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input. It is raised before
// anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthError reports a missing, invalid or expired credential.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "unauthenticated: " + e.Reason
}

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnknownUserError reports a user reference the identity provider could not resolve.
type UnknownUserError struct {
	Ref string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("user %s not found", e.Ref)
}

// ConflictError reports an operation that is not allowed in the current state.
// Duplicate marks the case where the record already exists.
type ConflictError struct {
	Reason    string
	Duplicate bool
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUnknownUser(err error) bool {
	var target *UnknownUserError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
