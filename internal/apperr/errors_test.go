package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHTTPStatus(t *testing.T) {
	t.Run("InvalidArgument -> 400", func(t *testing.T) {
		err := status.Error(codes.InvalidArgument, "bad")
		gotStatus, gotCode, msg := HTTPStatus(err)
		if gotStatus != http.StatusBadRequest || gotCode != "INVALID_ARGUMENT" || msg != "bad" {
			t.Fatalf("got (%d,%s,%s)", gotStatus, gotCode, msg)
		}
	})

	t.Run("NotFound -> 404", func(t *testing.T) {
		err := status.Error(codes.NotFound, "missing")
		gotStatus, gotCode, _ := HTTPStatus(err)
		if gotStatus != http.StatusNotFound || gotCode != "NOT_FOUND" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unavailable -> 503", func(t *testing.T) {
		err := status.Error(codes.Unavailable, "down")
		gotStatus, gotCode, _ := HTTPStatus(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("DeadlineExceeded -> 503", func(t *testing.T) {
		gotStatus, gotCode, _ := HTTPStatus(fmt.Errorf("fetch: %w", context.DeadlineExceeded))
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("stock -> 409", func(t *testing.T) {
		gotStatus, gotCode, msg := HTTPStatus(Stock("cart.AddItem", "only %d left", 5))
		if gotStatus != http.StatusConflict || gotCode != "FAILED_PRECONDITION" || msg != "only 5 left" {
			t.Fatalf("got (%d,%s,%s)", gotStatus, gotCode, msg)
		}
	})

	t.Run("auth rejected -> 401", func(t *testing.T) {
		err := New("session.FetchUser", ErrAuthRejected, "token expired", nil)
		gotStatus, gotCode, _ := HTTPStatus(err)
		if gotStatus != http.StatusUnauthorized || gotCode != "UNAUTHENTICATED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("non-grpc error -> 500", func(t *testing.T) {
		err := errors.New("boom")
		gotStatus, gotCode, _ := HTTPStatus(err)
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		kind error
		code codes.Code
	}{
		{"validation", Validation("cart.AddItem", "quantity must be positive"), ErrValidation, codes.InvalidArgument},
		{"stock", Stock("cart.UpdateQuantity", "exceeds stock"), ErrStock, codes.FailedPrecondition},
		{"not found", NotFound("cart.UpdateQuantity", "no item %d", 99), ErrNotFound, codes.NotFound},
		{"protocol", Protocol("session.Login", "missing access token"), ErrProtocol, codes.Internal},
		{"storage", Storage("cart.persist", cause), ErrStorage, codes.Unavailable},
		{"wrapped", fmt.Errorf("outer: %w", Stock("op", "x")), ErrStock, codes.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if got := Code(tt.err); got != tt.code {
				t.Fatalf("Code() = %v, want %v", got, tt.code)
			}
			if got := status.Code(tt.err); got != tt.code {
				t.Fatalf("status.Code() = %v, want %v", got, tt.code)
			}
		})
	}

	if !errors.Is(Storage("op", cause), cause) {
		t.Fatal("storage error must unwrap to its cause")
	}
	if errors.Is(Stock("op", "x"), ErrValidation) {
		t.Fatal("stock error must not match validation")
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("login: %w", Validation("session.Login", "login and password are required"))
	if got := Message(err); got != "login and password are required" {
		t.Fatalf("Message() = %q", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Fatalf("Message() = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("Message(nil) = %q", got)
	}
}
