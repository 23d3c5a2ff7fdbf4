package platform_test

import (
	"errors"
	"image"
	"testing"

	"rein/internal/platform"
	"rein/internal/platform/headless"
)

func TestPresentWithoutBufferIsNoop(t *testing.T) {
	b := headless.New(20, 10)
	ctx := platform.NewContext(b)

	ctx.Present(0, 0, 0, 0)
	ctx.Present(1, 1, 5, 5)
	if b.Presents != 0 || len(b.Updates) != 0 || len(b.Copies) != 0 {
		t.Fatalf("expected renderer untouched, got %d presents %d updates %d copies", b.Presents, len(b.Updates), len(b.Copies))
	}
}

func TestPixelBufferIdempotent(t *testing.T) {
	b := headless.New(20, 10)
	ctx := platform.NewContext(b)

	first, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	second, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if first != second || &first.Pix[0] != &second.Pix[0] {
		t.Fatal("expected the same buffer on repeated calls")
	}
	if second.W != 20 || second.H != 10 {
		t.Fatalf("expected 20x10, got %dx%d", second.W, second.H)
	}
	if b.Created != 1 {
		t.Fatalf("expected 1 texture, got %d", b.Created)
	}
}

func TestPixelBufferAfterResizeIsFresh(t *testing.T) {
	b := headless.New(20, 10)
	ctx := platform.NewContext(b)
	n := platform.NewNormalizer(b, ctx, nil)

	old, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	old.Pix[0] = 0xAA
	b.Resize(30, 15)
	ev, _ := n.Poll()
	r, ok := ev.(platform.Resized)
	if !ok {
		t.Fatalf("expected resized event, got %#v", ev)
	}

	s, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if s.W != r.Width || s.H != r.Height {
		t.Fatalf("expected %dx%d, got %dx%d", r.Width, r.Height, s.W, s.H)
	}
	if &s.Pix[0] == &old.Pix[0] || s.Pix[0] != 0 {
		t.Fatal("expected a fresh allocation after resize")
	}
	if b.Created != 2 || b.Destroyed != 1 {
		t.Fatalf("expected 2 creates and 1 destroy, got %d and %d", b.Created, b.Destroyed)
	}
}

func TestPixelBufferDetectsSizeChangeWithoutEvent(t *testing.T) {
	b := headless.New(20, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	b.Resize(8, 8)

	s, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if s.W != 8 || s.H != 8 {
		t.Fatalf("expected 8x8, got %dx%d", s.W, s.H)
	}
	if b.Destroyed != 1 {
		t.Fatalf("expected the old texture destroyed, got %d", b.Destroyed)
	}
}

func TestFullPresentRunsTwiceAfterCreation(t *testing.T) {
	b := headless.New(20, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}

	ctx.Present(0, 0, 0, 0)
	if b.Presents != 2 || len(b.Updates) != 2 || len(b.Copies) != 2 {
		t.Fatalf("expected doubled sequence, got %d presents %d updates %d copies", b.Presents, len(b.Updates), len(b.Copies))
	}
	ctx.Present(0, 0, -1, 5)
	if b.Presents != 3 || len(b.Updates) != 3 {
		t.Fatalf("expected a single sequence, got %d presents %d updates", b.Presents, len(b.Updates))
	}
	for _, u := range b.Updates {
		if u.Rect != nil || u.Len != 20*10*4 || u.Pitch != 80 {
			t.Fatalf("expected full uploads, got %#v", u)
		}
	}

	b.Resize(10, 10)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Present(0, 0, 0, 0)
	if b.Presents != 5 {
		t.Fatalf("expected doubled sequence after recreation, got %d presents", b.Presents)
	}
}

func TestMarkStaleForcesDoublePresent(t *testing.T) {
	b := headless.New(4, 4)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Present(0, 0, 0, 0)
	b.Presents = 0

	b.Push(platform.HostEvent{Kind: platform.HostDidEnterForeground})
	n := platform.NewNormalizer(b, ctx, nil)
	if ev, _ := n.Poll(); ev != (platform.Exposed{}) {
		t.Fatalf("expected exposed, got %#v", ev)
	}
	ctx.Present(0, 0, 0, 0)
	if b.Presents != 2 {
		t.Fatalf("expected 2 presents, got %d", b.Presents)
	}
}

func TestPartialPresent(t *testing.T) {
	b := headless.New(10, 10)
	ctx := platform.NewContext(b)
	s, err := ctx.PixelBuffer()
	if err != nil {
		t.Fatal(err)
	}
	ctx.Present(0, 0, 0, 0)
	s.Pix[s.Offset(2, 3)] = 0x7F
	b.Updates, b.Copies, b.Presents = nil, nil, 0

	ctx.Present(2, 3, 4, 5)
	if b.Presents != 1 || len(b.Updates) != 1 {
		t.Fatalf("expected one partial sequence, got %d presents %d updates", b.Presents, len(b.Updates))
	}
	u := b.Updates[0]
	want := image.Rect(2, 3, 6, 8)
	if u.Rect == nil || *u.Rect != want {
		t.Fatalf("expected rect %v, got %v", want, u.Rect)
	}
	if u.First[0] != 0x7F || u.Pitch != s.Pitch {
		t.Fatalf("expected upload to start at the rect origin with surface pitch, got %#v", u)
	}
	if b.Copies[0] == nil || *b.Copies[0] != want {
		t.Fatalf("expected copy of %v, got %v", want, b.Copies[0])
	}
}

func TestPartialPresentClipsToSurface(t *testing.T) {
	b := headless.New(10, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Present(0, 0, 0, 0)
	b.Updates, b.Presents = nil, 0

	ctx.Present(8, 8, 5, 5)
	if got := *b.Updates[0].Rect; got != image.Rect(8, 8, 10, 10) {
		t.Fatalf("expected clipped rect, got %v", got)
	}
	ctx.Present(20, 20, 5, 5)
	if b.Presents != 1 {
		t.Fatalf("expected off-surface rect to be skipped, got %d presents", b.Presents)
	}
}

func TestPartialDisabledPromotesToFull(t *testing.T) {
	b := headless.New(10, 10)
	b.Partial = false
	ctx := platform.NewContext(b)
	if ctx.PartialUpdates() {
		t.Fatal("expected capability to follow the renderer")
	}
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Present(0, 0, 0, 0)
	b.Updates = nil

	ctx.Present(1, 1, 2, 2)
	if len(b.Updates) != 1 || b.Updates[0].Rect != nil {
		t.Fatalf("expected a full upload, got %#v", b.Updates)
	}
}

func TestWithoutPartialUpdatesOption(t *testing.T) {
	b := headless.New(10, 10)
	ctx := platform.NewContext(b, platform.WithoutPartialUpdates())
	if ctx.PartialUpdates() {
		t.Fatal("expected partial updates to be disabled")
	}
}

func TestPartialRightAfterCreationIsFull(t *testing.T) {
	b := headless.New(10, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Present(1, 1, 2, 2)
	if b.Presents != 2 || b.Updates[0].Rect != nil {
		t.Fatalf("expected doubled full sequence, got %d presents", b.Presents)
	}
}

func TestTextureFailure(t *testing.T) {
	b := headless.New(10, 10)
	b.FailTextures = true
	ctx := platform.NewContext(b)

	if _, err := ctx.PixelBuffer(); !errors.Is(err, platform.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	ctx.Present(0, 0, 0, 0)
	if b.Presents != 0 {
		t.Fatal("expected present without texture to be a no-op")
	}

	b.FailTextures = false
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestSurfaceFailure(t *testing.T) {
	b := headless.New(0, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); !errors.Is(err, platform.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
}

func TestCloseReleasesTexture(t *testing.T) {
	b := headless.New(10, 10)
	ctx := platform.NewContext(b)
	if _, err := ctx.PixelBuffer(); err != nil {
		t.Fatal(err)
	}
	ctx.Close()
	if b.Destroyed != 1 {
		t.Fatalf("expected 1 destroy, got %d", b.Destroyed)
	}
}
