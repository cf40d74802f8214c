// Package apperr defines the error kinds shared by the session and cart
// managers and their mapping onto gRPC codes and HTTP statuses.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Sentinel kinds; compare with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrStock        = errors.New("insufficient stock")
	ErrNotFound     = errors.New("not found")
	ErrProtocol     = errors.New("unexpected response")
	ErrAuthRejected = errors.New("credentials rejected")
	ErrStorage      = errors.New("local storage failure")
)

// Error carries the failing operation and a user-facing message alongside
// its kind and optional cause.
type Error struct {
	Op      string // e.g. "cart.AddItem"
	Kind    error  // one of the sentinels above
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// GRPCStatus lets status.Code and status.FromError understand app errors.
func (e *Error) GRPCStatus() *status.Status {
	msg := e.Message
	if msg == "" {
		msg = e.Error()
	}
	return status.New(kindCode(e.Kind), msg)
}

func New(op string, kind error, msg string, cause error) error {
	return &Error{Op: op, Kind: kind, Message: msg, Err: cause}
}

func Validation(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Stock(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrStock, Message: fmt.Sprintf(format, args...)}
}

func NotFound(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Protocol(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrProtocol, Message: fmt.Sprintf(format, args...)}
}

func Storage(op string, cause error) error {
	return &Error{Op: op, Kind: ErrStorage, Err: cause}
}

// Message returns the user-facing text of err, without operation prefixes
// when err is (or wraps) an *Error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}

func kindCode(kind error) codes.Code {
	switch kind {
	case ErrValidation:
		return codes.InvalidArgument
	case ErrStock:
		return codes.FailedPrecondition
	case ErrNotFound:
		return codes.NotFound
	case ErrProtocol:
		return codes.Internal
	case ErrAuthRejected:
		return codes.Unauthenticated
	case ErrStorage:
		return codes.Unavailable
	default:
		return codes.Unknown
	}
}

// Code classifies any error into a gRPC code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, ErrStock):
		return codes.FailedPrecondition
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	case errors.Is(err, ErrAuthRejected):
		return codes.Unauthenticated
	case errors.Is(err, ErrProtocol):
		return codes.Internal
	case errors.Is(err, ErrStorage):
		return codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	return status.Code(err)
}

// HTTPStatus maps err to an HTTP status, a stable machine code and a message.
func HTTPStatus(err error) (int, string, string) {
	msg := Message(err)
	var ae *Error
	if !errors.As(err, &ae) {
		if st, ok := status.FromError(err); ok {
			msg = st.Message()
		}
	}

	switch Code(err) {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", msg
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", msg
	case codes.AlreadyExists:
		return http.StatusConflict, "ALREADY_EXISTS", msg
	case codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", msg
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", msg
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", msg
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", msg
	default:
		return http.StatusInternalServerError, "INTERNAL", msg
	}
}
