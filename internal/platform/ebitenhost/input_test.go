package ebitenhost

import (
	"bytes"
	"testing"

	"rein/internal/platform"
)

func TestPackRowsSubRectangle(t *testing.T) {
	// 4x3 surface with a 5 pixel pitch; each byte holds its own offset.
	const pitch = 20
	pix := make([]byte, pitch*3)
	for i := range pix {
		pix[i] = byte(i)
	}
	// Rectangle (1,1)-(3,3) starts at pitch*1 + 1*4.
	got := packRows(nil, pix[pitch+4:], pitch, 8, 2)
	want := []byte{
		24, 25, 26, 27, 28, 29, 30, 31,
		44, 45, 46, 47, 48, 49, 50, 51,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPackRowsReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	src := bytes.Repeat([]byte{7}, 32)
	got := packRows(buf, src, 16, 8, 2)
	if len(got) != 16 {
		t.Fatalf("expected 16 packed bytes, got %d", len(got))
	}
	if &got[0] != &buf[:1][0] {
		t.Fatalf("expected the buffer to be reused")
	}
	got = packRows(got, src, 8, 8, 4)
	if len(got) != 32 || cap(got) != 64 {
		t.Fatalf("expected 32 bytes in the same buffer, got len %d cap %d", len(got), cap(got))
	}
}

func TestCursorMotionDeltas(t *testing.T) {
	b := &Backend{}
	b.cursor(10, 10)
	if b.Len() != 0 {
		t.Fatalf("expected first sample to set the origin only, got %d events", b.Len())
	}
	b.cursor(10, 10)
	b.cursor(15, 7)
	b.cursor(20, 9)
	if b.Len() != 2 {
		t.Fatalf("expected 2 motion events, got %d", b.Len())
	}
	e, _ := b.PollEvent()
	if e.Kind != platform.HostMouseMotion || e.X != 15 || e.Y != 7 || e.DX != 5 || e.DY != -3 {
		t.Fatalf("unexpected first motion %#v", e)
	}
	e, _ = b.PollEvent()
	if e.X != 20 || e.Y != 9 || e.DX != 5 || e.DY != 2 {
		t.Fatalf("unexpected second motion %#v", e)
	}
}

func TestWheelAccumulatesFractions(t *testing.T) {
	b := &Backend{}
	b.wheel(0.4)
	b.wheel(0.4)
	if b.Len() != 0 {
		t.Fatalf("expected no whole step yet, got %d events", b.Len())
	}
	b.wheel(0.4)
	e, ok := b.PollEvent()
	if !ok || e.Kind != platform.HostMouseWheel || e.WheelY != 1 {
		t.Fatalf("expected one wheel step, got %#v", e)
	}
	b.wheel(-2.5)
	e, _ = b.PollEvent()
	if e.WheelY != -2 {
		t.Fatalf("expected -2 wheel steps, got %d", e.WheelY)
	}
}

func TestWindowStateEdges(t *testing.T) {
	b := &Backend{focused: true}
	b.windowState(true, false)
	if b.Len() != 0 {
		t.Fatalf("expected no events without a change, got %d", b.Len())
	}
	b.windowState(false, true)
	if b.Len() != 0 {
		t.Fatalf("expected losing focus and minimizing to stay quiet, got %d", b.Len())
	}
	b.windowState(true, false)
	e, _ := b.PollEvent()
	if e.Kind != platform.HostWindow || e.Window != platform.WindowFocusGained {
		t.Fatalf("expected focus gained, got %#v", e)
	}
	e, _ = b.PollEvent()
	if e.Kind != platform.HostWindow || e.Window != platform.WindowRestored {
		t.Fatalf("expected restored, got %#v", e)
	}
}
