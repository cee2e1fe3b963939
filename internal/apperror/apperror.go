package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure. All failures cross component boundaries as
// values of *Error; no component retries a conflict or validation failure.
type Kind int

const (
	KindMissingVersion Kind = iota
	KindConflict
	KindValidation
	KindNotFound
	KindForbidden
	KindTooLarge
	KindUnsupportedType
)

type Error struct {
	Kind     Kind
	Resource string
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Status maps the failure kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindMissingVersion:
		return fiber.StatusBadRequest
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case KindUnsupportedType:
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func NewMissingVersion() *Error {
	return &Error{
		Kind:     KindMissingVersion,
		Messages: []string{"lock_version is required"},
	}
}

func NewConflict(resource string) *Error {
	return &Error{
		Kind:     KindConflict,
		Resource: resource,
		Messages: []string{fmt.Sprintf("%s has been modified by someone else, please reload and retry", resource)},
	}
}

func NewValidation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Messages: messages}
}

func NewNotFound(resource string, id any) *Error {
	return &Error{
		Kind:     KindNotFound,
		Resource: resource,
		Messages: []string{fmt.Sprintf("%s (id : %v) not found", resource, id)},
	}
}

func NewForbidden() *Error {
	return &Error{Kind: KindForbidden, Messages: []string{"you do not have access to this project"}}
}

func NewTooLarge(maxBytes int64) *Error {
	return &Error{
		Kind:     KindTooLarge,
		Messages: []string{fmt.Sprintf("image exceeds the maximum size of %dMB", maxBytes/(1024*1024))},
	}
}

func NewUnsupportedType(contentType string) *Error {
	return &Error{
		Kind:     KindUnsupportedType,
		Messages: []string{fmt.Sprintf("content type %s is not allowed", contentType)},
	}
}

// Append adds another violated constraint to a validation failure so that the
// caller receives every violated field, not just the first.
func (e *Error) Append(message string) *Error {
	e.Messages = append(e.Messages, message)
	return e
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
