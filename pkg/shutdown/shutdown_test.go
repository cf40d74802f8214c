package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithSignals_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithSignals(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after parent cancel")
	}
}

func TestGraceful(t *testing.T) {
	boom := errors.New("boom")
	err := Graceful(50*time.Millisecond, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected deadline on stop context")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Graceful() = %v, want %v", err, boom)
	}
}
