package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReady_ImmediateSuccess(t *testing.T) {
	calls := 0
	err := WaitForReady(context.Background(), time.Second, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("ping calls = %d, want 1", calls)
	}
}

func TestWaitForReady_EventualSuccess(t *testing.T) {
	calls := 0
	err := WaitForReady(context.Background(), 2*time.Second, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("ping calls = %d, want 3", calls)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	err := WaitForReady(context.Background(), 250*time.Millisecond, func(context.Context) error {
		return errors.New("down")
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: OpGet, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Error should unwrap to inner")
	}
	if err.Error() != "GET: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
