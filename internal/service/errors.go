package service

import (
	"errors"
	"fmt"
)

// Error codes carried to callers.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeResourceExists   = "RESOURCE_EXISTS"
	CodeResourceNotFound = "RESOURCE_NOT_FOUND"
	CodeNotAllowed       = "NOT_ALLOWED_ACCESS"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Service errors.
var (
	// ErrDependencyNotFound means required seed data is missing. It is a provisioning defect.
	ErrDependencyNotFound = errors.New("required seed data not found")
	ErrSlugTaken          = errors.New("slug already taken")
	ErrStoreUnavailable   = errors.New("store temporarily unavailable")
	ErrInvalidReference   = errors.New("referenced entity does not exist")
	ErrAlreadyMember      = errors.New("user is already a member of this community")
	ErrNotAllowed         = errors.New("not allowed to perform this action")
)

// ValidationError reports a malformed input parameter.
type ValidationError struct {
	Param   string `json:"param"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

func invalid(param, message string) *ValidationError {
	return &ValidationError{Param: param, Message: message, Code: CodeInvalidInput}
}

// ReferenceError names the reference that did not resolve. It matches ErrInvalidReference.
type ReferenceError struct {
	Param string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidReference, e.Param)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}
