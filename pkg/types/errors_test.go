package types_test

import (
	"errors"
	"testing"

	"github.com/foundrykit/foundry-mcp/pkg/types"
)

func TestDomainError_Error(t *testing.T) {
	err := types.NewDomainError("executor.Execute", types.ErrBinaryNotFound, errors.New("exec: \"forge\": executable file not found"))

	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}

	if !errors.Is(err, types.ErrBinaryNotFound) {
		t.Error("expected error to match ErrBinaryNotFound")
	}
}

func TestDomainError_WithoutUnderlying(t *testing.T) {
	err := types.NewDomainError("sessions.StartAnvil", types.ErrSessionAlreadyRunning, nil)

	if !errors.Is(err, types.ErrSessionAlreadyRunning) {
		t.Error("expected error to match ErrSessionAlreadyRunning")
	}

	if err.Error() != "sessions.StartAnvil: session already running" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDomainError_WithContext(t *testing.T) {
	err := types.NewDomainError("builder.Build", types.ErrMissingArgument, nil).
		WithContext("parameter", "address")

	if err.Context["parameter"] != "address" {
		t.Errorf("expected context parameter 'address', got %v", err.Context["parameter"])
	}
}

func TestValidationError(t *testing.T) {
	err := types.NewValidationError("port", "must be between 1 and 65535")

	if err.Field != "port" {
		t.Errorf("expected field 'port', got %s", err.Field)
	}

	if err.Error() != "validation error: port - must be between 1 and 65535" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"tool not found", types.ErrToolNotFound, true},
		{"binary not found", types.ErrBinaryNotFound, true},
		{"wrapped tool not found", types.NewDomainError("catalog.Lookup", types.ErrToolNotFound, nil), true},
		{"session error", types.ErrSessionNotRunning, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSessionError(t *testing.T) {
	if !types.IsSessionError(types.ErrEvalTimeout) {
		t.Error("expected ErrEvalTimeout to be a session error")
	}
	if types.IsSessionError(types.ErrToolNotFound) {
		t.Error("ErrToolNotFound should not be a session error")
	}
}
