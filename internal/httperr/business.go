package httperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindUnauthorized
	KindExternal
)

// BusinessError is an error whose message is safe to show to the client.
type BusinessError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrValidation(msg string) error {
	return BusinessError{Kind: KindValidation, Message: msg}
}

func ErrNotFound(msg string) error {
	return BusinessError{Kind: KindNotFound, Message: msg}
}

func ErrForbidden(msg string) error {
	return BusinessError{Kind: KindForbidden, Message: msg}
}

func ErrConflict(msg string) error {
	return BusinessError{Kind: KindConflict, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return BusinessError{Kind: KindUnauthorized, Message: msg}
}

func ErrExternal(msg string, cause error) error {
	return BusinessError{Kind: KindExternal, Message: msg, Cause: cause}
}

// IsBusiness reports whether err is a BusinessError of the given kind.
func IsBusiness(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// NotFoundOr turns a missing-record error into a NotFound with msg and
// passes every other error through.
func NotFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound(msg)
	}
	return err
}
