package docstore

import (
	"context"
	"testing"
	"time"
)

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if !th.wait(ctx) {
			t.Fatal("wait returned false")
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected throttle to delay calls, elapsed %v", elapsed)
	}
}

func TestThrottleStopsOnCancel(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatal("first wait should pass immediately")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatal("expected wait to abort after cancel")
	}
}

func TestNilThrottleIsNoop(t *testing.T) {
	var th *throttle
	if !th.wait(context.Background()) {
		t.Fatal("nil throttle should never block")
	}
}
