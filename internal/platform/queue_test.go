package platform

import "testing"

func TestQueueTakeAndFlushKeepOrder(t *testing.T) {
	var q Queue
	q.Push(
		HostEvent{Kind: HostKeyDown, Key: 1},
		HostEvent{Kind: HostMouseMotion, X: 1},
		HostEvent{Kind: HostKeyUp, Key: 1},
		HostEvent{Kind: HostMouseMotion, X: 2},
		HostEvent{Kind: HostQuit},
	)

	e, ok := q.TakeEvent(HostMouseMotion)
	if !ok || e.X != 1 {
		t.Fatalf("expected first motion event, got %#v", e)
	}
	q.FlushEvents(HostKeyDown, HostKeyUp)
	if q.Len() != 2 {
		t.Fatalf("expected 2 events left, got %d", q.Len())
	}
	if e, _ := q.PollEvent(); e.Kind != HostMouseMotion || e.X != 2 {
		t.Fatalf("unexpected event %#v", e)
	}
	if e, _ := q.PollEvent(); e.Kind != HostQuit {
		t.Fatalf("unexpected event %#v", e)
	}
	if _, ok := q.TakeEvent(HostQuit); ok {
		t.Fatal("expected empty queue")
	}
}
