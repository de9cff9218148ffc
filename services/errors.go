package services

import (
	"errors"
	"fmt"
)

// Kind 標示服務層錯誤的種類，handlers 據此對應 HTTP 狀態碼
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindAlreadyParked       Kind = "already_parked"
	KindNoActiveReservation Kind = "no_active_reservation"
	KindCapacityExceeded    Kind = "capacity_exceeded"
	KindPersistence         Kind = "persistence_failure"
)

// Error 定義帶種類的服務層錯誤
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 讓 errors.Is 可以用同種類的 Error 比對
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

func notFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

func conflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Err: fmt.Errorf(format, args...)}
}

func alreadyParkedError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAlreadyParked, Err: fmt.Errorf(format, args...)}
}

func noActiveReservationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNoActiveReservation, Err: fmt.Errorf(format, args...)}
}

func capacityExceededError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindCapacityExceeded, Err: fmt.Errorf(format, args...)}
}

func persistenceError(err error) *Error {
	return &Error{Kind: KindPersistence, Err: err}
}

// KindOf 取出錯誤種類，非服務層錯誤一律視為 persistence_failure
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}
