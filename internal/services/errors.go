package services

import (
	"errors"
	"fmt"

	"github.com/nedirbay/project-management-own-version/internal/membership"
	"github.com/nedirbay/project-management-own-version/internal/policy"
	"gorm.io/gorm"
)

// Outcome kinds. Every error a service returns on purpose wraps exactly one
// of these; anything else is a storage failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
)

type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}

func validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return newError(ErrConflict, fmt.Sprintf(format, args...))
}

// authorize consults the policy engine and turns a deny into ErrForbidden.
func authorize(actor Actor, rels policy.RelationSet, resource policy.Resource, action policy.Action) error {
	d := policy.Authorize(actor.Role, rels, resource, action)
	if !d.Allowed {
		return newError(ErrForbidden, d.Reason)
	}
	return nil
}

// lookupErr maps a repository lookup failure: a missing row becomes notFound,
// anything else is wrapped with the attempted operation.
func lookupErr(err, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// resolveErr maps a resolver failure. A vanished parent reads as notFound.
func resolveErr(err, notFound error) error {
	if errors.Is(err, membership.ErrParentNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to resolve relations: %w", err)
}

// storeErr maps a write failure: a uniqueness violation becomes conflict.
func storeErr(err, conflict error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
