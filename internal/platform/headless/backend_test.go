package headless

import (
	"testing"
	"time"

	"rein/internal/platform"
)

func TestWaitEventSleepsOutTimeout(t *testing.T) {
	b := New(10, 10)
	start := time.Now()
	if b.WaitEvent(50 * time.Millisecond) {
		t.Fatalf("expected no event on an empty queue")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("expected wait of at least 50ms, got %v", elapsed)
	}
}

func TestWaitEventReturnsAtOnceWhenQueued(t *testing.T) {
	b := New(10, 10)
	b.Push(platform.HostEvent{Kind: platform.HostQuit})
	start := time.Now()
	if !b.WaitEvent(time.Second) {
		t.Fatalf("expected queued event to be reported")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("expected immediate return, got %v", elapsed)
	}
}

func TestWaitEventNegativeTimeoutIsBounded(t *testing.T) {
	b := New(10, 10)
	start := time.Now()
	if b.WaitEvent(-1) {
		t.Fatalf("expected no event on an empty queue")
	}
	if elapsed := time.Since(start); elapsed < idleWait || elapsed > time.Second {
		t.Fatalf("expected a short idle sleep, got %v", elapsed)
	}
}

func TestWaitEventAfterClose(t *testing.T) {
	b := New(10, 10)
	b.Close()
	if !b.WaitEvent(time.Second) {
		t.Fatalf("expected closed window to report an event")
	}
}

func TestSetIconIgnoresShortPixels(t *testing.T) {
	b := New(10, 10)
	b.SetIcon(make([]byte, 3), 2, 2)
	if b.Icon != nil {
		t.Fatalf("expected short icon to be ignored, got %d bytes", len(b.Icon))
	}
	b.SetIcon(make([]byte, 16), 0, 4)
	if b.Icon != nil {
		t.Fatalf("expected empty icon to be ignored, got %d bytes", len(b.Icon))
	}
	b.SetIcon(make([]byte, 20), 2, 2)
	if len(b.Icon) != 16 {
		t.Fatalf("expected 16 icon bytes, got %d", len(b.Icon))
	}
}
