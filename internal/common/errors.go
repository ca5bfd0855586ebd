// Package common defines shared constants and errors used across the
// coursehub services. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
)

// Service-level errors for kinds whose message takes no arguments. Each one
// is a *Error of the corresponding kind, so errors.Is matches any error of
// that kind, including ones wrapping a cause. Kinds with message arguments
// are built with NewError at the failure site.
var (
	ErrValidation          = NewError(KindValidation)
	ErrInvalidToken        = NewError(KindInvalidToken)
	ErrInvalidCredentials  = NewError(KindInvalidCredentials)
	ErrUserNotFound        = NewError(KindUserNotFound)
	ErrForbidden           = NewError(KindForbidden)
	ErrInvalidRefreshToken = NewError(KindInvalidRefreshToken)
	ErrGeneralAPI          = NewError(KindGeneralAPI)
)

// UpstreamError is an error answer from another coursehub service. Handlers
// relay its code and message unchanged.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
}
