package planner

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageWithoutCause(t *testing.T) {
	err := New(InvalidInput, "text cannot be empty")
	want := "INVALID_INPUT: text cannot be empty"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(RepositoryUnavailable, "catalog query failed", cause)
	want := "REPOSITORY_UNAVAILABLE: catalog query failed: connection refused"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestIsMatchesDirectKind(t *testing.T) {
	err := New(EmptyPlan, "no activities scheduled")
	if !Is(err, EmptyPlan) {
		t.Error("expected Is to match EmptyPlan")
	}
	if Is(err, InvalidInput) {
		t.Error("expected Is not to match InvalidInput")
	}
}

func TestIsUnwrapsThroughFmtErrorf(t *testing.T) {
	base := New(DeadlineExceeded, "soft deadline reached")
	wrapped := fmt.Errorf("generate itinerary: %w", base)
	if !Is(wrapped, DeadlineExceeded) {
		t.Error("expected Is to unwrap through fmt.Errorf wrapping")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain error"), InvalidInput) {
		t.Error("expected Is to return false for a non-planner error")
	}
}

func TestIsFalseForNilError(t *testing.T) {
	if Is(nil, InvalidInput) {
		t.Error("expected Is to return false for nil")
	}
}
