package mongo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDirectManager_RunsCallbackWithCallerContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	tm := NewManager(nil, false)
	if tm.Transactional() {
		t.Fatal("direct manager must not report transactional")
	}

	var seen any
	err := tm.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		seen = txCtx.Value(key{})
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "v" {
		t.Errorf("callback did not receive caller context")
	}

	want := errors.New("boom")
	if err := tm.ExecuteTransaction(ctx, func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("expected callback error to propagate, got %v", err)
	}
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, cancelInner := WithTimeout(parent, time.Hour)
	defer cancelInner()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("deadline was extended past the parent's: %s", time.Until(deadline))
	}
}

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline to be set")
	}
}
