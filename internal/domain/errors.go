package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindValidation  ErrorKind = "validation"
	ErrKindNotFound    ErrorKind = "not_found"
	ErrKindAuth        ErrorKind = "auth"
	ErrKindConflict    ErrorKind = "conflict"
	ErrKindPersistence ErrorKind = "persistence"
)

// Error — типизированная ошибка сервиса. Хендлеры мапят Kind в HTTP-статус,
// внутренние детали наружу не отдаются.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AuthError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindAuth, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func PersistenceError(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf возвращает вид ошибки; для нетипизированных ошибок считаем,
// что отказало хранилище.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindPersistence
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
