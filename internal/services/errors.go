package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrPropostaNotFound = errors.New("proposta not found")
	ErrDocenteNotFound  = errors.New("docente not found")
	ErrAlunoNotFound    = errors.New("aluno not found")

	// ErrInvalidCredentials covers every login failure cause so callers
	// cannot tell an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrResetTokenInvalid covers every reset failure cause: unknown
	// account, no pending reset, hash mismatch, expired token.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// PermissionError carries the denied action for logging; handlers emit a
// fixed 403 body without the detail.
type PermissionError struct {
	SubjectID  string
	Resource   string
	ResourceID string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: subject %s cannot %s %s %s: %s",
		e.SubjectID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(subjectID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		SubjectID:  subjectID,
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
		Reason:     reason,
	}
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// ConflictError signals a uniqueness violation on a named field (409).
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

func NewConflictError(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// BusinessRuleError signals a request that is well-formed but violates a
// domain rule, such as referencing docentes that do not exist (400).
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

func IsBusinessRuleError(err error) bool {
	var be *BusinessRuleError
	return errors.As(err, &be)
}
