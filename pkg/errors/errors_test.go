package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	plain := New(ErrCodeNotFound, "domain %q", "backend")
	if got, want := plain.Error(), `NOT_FOUND: domain "backend"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrCodeDataFetch, cause, "load %s", "entities.json")
	if got, want := wrapped.Error(), "DATA_FETCH: load entities.json: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}
}

func TestIsWalksChain(t *testing.T) {
	notFound := New(ErrCodeNotFound, "entities/ada.json")
	fetch := Wrap(ErrCodeDataFetch, notFound, "entity ada")
	outer := fmt.Errorf("refresh: %w", fetch)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", fetch, ErrCodeDataFetch, true},
		{"inner code", fetch, ErrCodeNotFound, true},
		{"through fmt wrap", outer, ErrCodeNotFound, true},
		{"absent code", outer, ErrCodeTimeout, false},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("solve: %w", Wrap(ErrCodeTessellationFailed, New(ErrCodeInternal, "nan"), "domain backend"))
	if got := GetCode(err); got != ErrCodeTessellationFailed {
		t.Errorf("GetCode = %s, want outermost TESSELLATION_FAILED", got)
	}
	if got := UserMessage(err); got != "domain backend" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidFormat, "gif"), http.StatusBadRequest},
		{New(ErrCodeInvalidPath, "../x"), http.StatusBadRequest},
		{New(ErrCodeViewNotFound, "v1"), http.StatusNotFound},
		{Wrap(ErrCodeDataFetch, New(ErrCodeNotFound, "404"), "load"), http.StatusBadGateway},
		{New(ErrCodeLibraryUnavailable, "never ready"), http.StatusServiceUnavailable},
		{New(ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{New(ErrCodeDegradedLayout, "isolated"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
