// Package apperrors defines the error taxonomy of the interview turn
// protocol and maps each kind to an HTTP status for the API surface.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// KindTransport covers network and IO failures reaching the reasoning service.
	KindTransport Kind = "transport"
	// KindProtocol covers responses whose shape violates the turn contract.
	KindProtocol Kind = "protocol"
	// KindRemote covers application-level failures reported by the reasoning service.
	KindRemote Kind = "remote"
	// KindEmptyAnswer covers local validation: no text and no recording.
	KindEmptyAnswer Kind = "empty_answer"
	// KindStorage covers recording-upload and session-persistence failures.
	KindStorage Kind = "storage"
	// KindConflict covers a submission while a turn is already in flight.
	KindConflict Kind = "conflict"
	// KindNotFound covers lookups of unknown or already-abandoned sessions.
	KindNotFound Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Message string
	// Code carries the remote-provided error code for KindRemote.
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Transport(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func Protocol(msg string, err error) *Error {
	return &Error{Kind: KindProtocol, Message: msg, Err: err}
}

func Remote(msg string, code string) *Error {
	return &Error{Kind: KindRemote, Message: msg, Code: code}
}

func EmptyAnswer(msg string) *Error {
	return &Error{Kind: KindEmptyAnswer, Message: msg}
}

func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps an error to the status code the API surface returns for it.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindEmptyAnswer:
		return http.StatusUnprocessableEntity
	case KindRemote, KindProtocol:
		return http.StatusBadGateway
	case KindTransport:
		return http.StatusGatewayTimeout
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
