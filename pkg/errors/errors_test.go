package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidZone, "unknown zone: %s", "Atlantis")

	if err.Code != ErrCodeInvalidZone {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidZone)
	}
	if err.Message != "unknown zone: Atlantis" {
		t.Errorf("Message = %v", err.Message)
	}

	expected := "INVALID_ZONE: unknown zone: Atlantis"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch NDVI")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnauthorized, "bad credentials")

	if !Is(err, ErrCodeUnauthorized) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), ErrCodeNetwork) {
		t.Error("Is should not match plain errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("GetCode for plain error = %v, want %v", got, ErrCodeInternal)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeSceneNotFound, "no scene for 2025-07-14")
	if got := UserMessage(err); got != "no scene for 2025-07-14" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := errors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
