package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsAppError(t *testing.T) {
	cause := errors.New("boom")

	t.Run("wrapped app error is found", func(t *testing.T) {
		src := Wrap(cause, CodePaymentRequired, "billing")
		got := AsAppError(fmt.Errorf("outer: %w", src))
		if got != src {
			t.Fatalf("expected the original AppError, got %v", got)
		}
		if got.HTTPStatus != http.StatusPaymentRequired {
			t.Errorf("status = %d", got.HTTPStatus)
		}
		if !errors.Is(got, cause) {
			t.Error("cause should be reachable through Unwrap")
		}
	})

	t.Run("plain error becomes generic 500", func(t *testing.T) {
		got := AsAppError(cause)
		if got.HTTPStatus != http.StatusInternalServerError {
			t.Errorf("status = %d", got.HTTPStatus)
		}
		if got.Message != "internal server error" {
			t.Errorf("message leaks detail: %q", got.Message)
		}
	})
}

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodePaymentRequired, http.StatusPaymentRequired},
		{CodeNotConfigured, http.StatusInternalServerError},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus; got != tt.want {
			t.Errorf("code %s: status = %d, want %d", tt.code, got, tt.want)
		}
	}
}
