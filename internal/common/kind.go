package common

import (
	"errors"
	"fmt"
)

// Kind classifies a service-level failure. Every kind owns a stable message
// key (used for localized lookups) and a numeric code returned to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindGenderEnum
	KindInvalidToken
	KindInvalidCredentials
	KindDuplicateUsername
	KindUserNotFound
	KindUserRoleNotExist
	KindForbidden
	KindInvalidRefreshToken
	KindCourseNotFound
	KindCourseNameExists
	KindCourseNotFoundInList
	KindPaymentNotFound
	KindPaymentExists
	KindNotEnoughMoney
	KindBigMoney
	KindLessMoney
	KindInvalidDateFormat
	KindInvalidDate
	KindGeneralAPI
)

type kindInfo struct {
	key  string
	code int
}

var kinds = map[Kind]kindInfo{
	KindInternal:            {"INTERNAL_ERROR", 500},
	KindValidation:          {"VALIDATION_ERROR", 409},
	KindGenderEnum:          {"GENDER_ENUM_ERROR", 402},
	KindInvalidToken:        {"FORBIDDEN_ERROR", 403},
	KindInvalidCredentials:  {"LOGIN_PASSWORD_ERROR", 401},
	KindDuplicateUsername:   {"USERNAME_ALREADY_EXIST", 406},
	KindUserNotFound:        {"USER_NOT_FOUND", 400},
	KindUserRoleNotExist:    {"USER_ROLE_NOT_EXIST", 404},
	KindForbidden:           {"FORBIDDEN_ERROR", 403},
	KindInvalidRefreshToken: {"INVALID_REFRESH_TOKEN", 405},
	KindCourseNotFound:      {"COURSE_NOT_FOUND", 200},
	KindCourseNameExists:    {"COURSE_NAME_ALREADY_EXIST", 201},

	KindCourseNotFoundInList: {"COURSE_NOT_FOUND_IN_LIST", 203},
	KindPaymentNotFound:      {"PAYMENT_NOT_FOUND", 501},
	KindGeneralAPI:           {"GENERAL_API_EXCEPTION", 503},
	KindBigMoney:             {"BIG_MONEY", 505},
	KindNotEnoughMoney:       {"NOT_ENOUGH_MONEY", 506},
	KindPaymentExists:        {"PAYMENT_EXIST", 507},
	KindLessMoney:            {"LESS_MONEY", 509},
	KindInvalidDateFormat:    {"INVALID_DATE_FORMAT", 510},
	KindInvalidDate:          {"INVALID_DATE", 511},
}

// Key returns the message key of the kind, e.g. "USERNAME_ALREADY_EXIST".
func (k Kind) Key() string {
	if info, ok := kinds[k]; ok {
		return info.key
	}
	return kinds[KindInternal].key
}

// Code returns the numeric code reported in error bodies.
func (k Kind) Code() int {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return kinds[KindInternal].code
}

func (k Kind) String() string { return k.Key() }

// Error is a service-level error: a kind, optional message arguments and an
// optional underlying cause.
type Error struct {
	Kind Kind
	Args []any
	Err  error
}

// NewError returns an *Error of the given kind with message arguments.
func NewError(kind Kind, args ...any) *Error {
	return &Error{Kind: kind, Args: args}
}

// Wrap returns an *Error of the given kind caused by err.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Key(), e.Err)
	}
	return e.Kind.Key()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ArgsOf returns the message arguments carried by err, if any.
func ArgsOf(err error) []any {
	var e *Error
	if errors.As(err, &e) {
		return e.Args
	}
	return nil
}
