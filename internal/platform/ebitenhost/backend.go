// Package ebitenhost runs the platform layer on top of ebiten. Ebiten polls
// input state once per tick, so the host diffs that state into a synthetic
// event queue before handing the tick to the frame function.
package ebitenhost

import (
	"errors"
	"image"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"rein/internal/platform"
)

const doubleClickWindow = 400 * time.Millisecond

var buttons = []struct {
	b  ebiten.MouseButton
	id int
}{
	{ebiten.MouseButtonLeft, 1},
	{ebiten.MouseButtonMiddle, 2},
	{ebiten.MouseButtonRight, 3},
	{ebiten.MouseButton3, 4},
	{ebiten.MouseButton4, 5},
}

type Backend struct {
	platform.Queue

	log     *slog.Logger
	partial bool
	frame   func() error

	w, h    int
	front   *ebiten.Image
	pending *ebiten.Image

	keys      []ebiten.Key
	chars     []rune
	cursorX   int
	cursorY   int
	cursorSet bool
	wheelAcc  float64
	focused   bool
	minimized bool

	lastButton  int
	lastClickAt time.Time
	clicks      int
}

type Option func(*Backend)

// WithPartialUpdates allows sub-rectangle uploads. Off by default since
// ebiten always renders through the GPU.
func WithPartialUpdates() Option {
	return func(b *Backend) { b.partial = true }
}

func New(cfg platform.WindowConfig, log *slog.Logger, opts ...Option) *Backend {
	if log == nil {
		log = slog.Default()
	}
	b := &Backend{log: log, focused: true}
	for _, opt := range opts {
		opt(b)
	}

	mw, mh := ebiten.Monitor().Size()
	b.w = int(float64(mw) * cfg.WidthFraction)
	b.h = int(float64(mh) * cfg.HeightFraction)
	if b.w <= 0 || b.h <= 0 {
		b.w, b.h = 1280, 800
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(b.w, b.h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	b.SetMode(cfg.Mode)
	return b
}

func (b *Backend) Name() string { return "ebiten" }

func (b *Backend) Run(frame func() error) error {
	b.frame = frame
	if err := ebiten.RunGame(b); err != nil {
		return err
	}
	return nil
}

func (b *Backend) Update() error {
	b.collect()
	if b.frame == nil {
		return nil
	}
	if err := b.frame(); err != nil {
		if errors.Is(err, platform.ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (b *Backend) Draw(screen *ebiten.Image) {
	if b.front == nil {
		return
	}
	screen.DrawImage(b.front, &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy})
}

func (b *Backend) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != b.w || outsideHeight != b.h {
		b.w, b.h = outsideWidth, outsideHeight
		b.log.Debug("window resized", "w", b.w, "h", b.h)
		b.Push(platform.HostEvent{Kind: platform.HostWindow, Window: platform.WindowResized, Data1: b.w, Data2: b.h})
	}
	return b.w, b.h
}

// collect turns this tick's input state into queued host events.
func (b *Backend) collect() {
	if ebiten.IsWindowBeingClosed() {
		b.Push(platform.HostEvent{Kind: platform.HostQuit})
	}

	b.windowState(ebiten.IsFocused(), ebiten.IsWindowMinimized())

	b.keys = inpututil.AppendJustPressedKeys(b.keys[:0])
	for _, k := range b.keys {
		b.Push(platform.HostEvent{Kind: platform.HostKeyDown, Key: int(k)})
	}
	b.chars = ebiten.AppendInputChars(b.chars[:0])
	if len(b.chars) > 0 {
		b.Push(platform.HostEvent{Kind: platform.HostTextInput, Text: string(b.chars)})
	}
	b.keys = inpututil.AppendJustReleasedKeys(b.keys[:0])
	for _, k := range b.keys {
		b.Push(platform.HostEvent{Kind: platform.HostKeyUp, Key: int(k)})
	}

	x, y := ebiten.CursorPosition()
	b.cursor(x, y)

	now := time.Now()
	for _, btn := range buttons {
		if inpututil.IsMouseButtonJustPressed(btn.b) {
			b.Push(platform.HostEvent{Kind: platform.HostMouseButtonDown, Button: btn.id, X: x, Y: y, Clicks: b.click(btn.id, now)})
		}
		if inpututil.IsMouseButtonJustReleased(btn.b) {
			b.Push(platform.HostEvent{Kind: platform.HostMouseButtonUp, Button: btn.id, X: x, Y: y})
		}
	}

	_, dy := ebiten.Wheel()
	b.wheel(dy)
}

// windowState queues focus-gained and restored events on the edges of the
// polled window flags.
func (b *Backend) windowState(focused, minimized bool) {
	if focused != b.focused {
		b.focused = focused
		if focused {
			b.Push(platform.HostEvent{Kind: platform.HostWindow, Window: platform.WindowFocusGained})
		}
	}
	if minimized != b.minimized {
		b.minimized = minimized
		if !minimized {
			b.Push(platform.HostEvent{Kind: platform.HostWindow, Window: platform.WindowRestored})
		}
	}
}

// cursor queues a motion event relative to the previous tick. The first
// sample only sets the origin.
func (b *Backend) cursor(x, y int) {
	if !b.cursorSet {
		b.cursorX, b.cursorY, b.cursorSet = x, y, true
		return
	}
	if x == b.cursorX && y == b.cursorY {
		return
	}
	b.Push(platform.HostEvent{Kind: platform.HostMouseMotion, X: x, Y: y, DX: x - b.cursorX, DY: y - b.cursorY})
	b.cursorX, b.cursorY = x, y
}

// wheel accumulates fractional trackpad steps and queues whole ones.
func (b *Backend) wheel(dy float64) {
	b.wheelAcc += dy
	if steps := math.Trunc(b.wheelAcc); steps != 0 {
		b.wheelAcc -= steps
		b.Push(platform.HostEvent{Kind: platform.HostMouseWheel, WheelY: int(steps)})
	}
}

func (b *Backend) click(button int, now time.Time) int {
	if button == b.lastButton && now.Sub(b.lastClickAt) <= doubleClickWindow {
		b.clicks++
	} else {
		b.clicks = 1
	}
	b.lastButton = button
	b.lastClickAt = now
	return b.clicks
}

func (b *Backend) KeyName(key int) string {
	return keyName(ebiten.Key(key))
}

// CaptureMouse is a no-op: ebiten keeps reporting the cursor while a button
// is held outside the window.
func (b *Backend) CaptureMouse(bool) error { return nil }

func (b *Backend) WindowSize() (int, int) { return b.w, b.h }

func (b *Backend) CreateTexture(w, h int) (platform.Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("ebitenhost: empty texture")
	}
	return &texture{img: ebiten.NewImage(w, h), w: w, h: h}, nil
}

func (b *Backend) Copy(tex platform.Texture, rect *image.Rectangle) error {
	t, ok := tex.(*texture)
	if !ok {
		return errors.New("ebitenhost: foreign texture")
	}
	if b.pending == nil || b.pending.Bounds().Dx() != b.w || b.pending.Bounds().Dy() != b.h {
		if b.pending != nil {
			b.pending.Deallocate()
		}
		b.pending = ebiten.NewImage(b.w, b.h)
	}
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	src := t.img
	if rect != nil {
		src = t.img.SubImage(*rect).(*ebiten.Image)
		op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	}
	b.pending.DrawImage(src, op)
	return nil
}

// Present publishes what was copied since the last present; Draw keeps
// showing it until the next one.
func (b *Backend) Present() {
	if b.pending == nil {
		return
	}
	if b.front == nil || b.front.Bounds() != b.pending.Bounds() {
		if b.front != nil {
			b.front.Deallocate()
		}
		b.front = ebiten.NewImage(b.w, b.h)
	}
	b.front.DrawImage(b.pending, &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy})
}

func (b *Backend) PartialUpdates() bool { return b.partial }

func (b *Backend) SetTitle(title string) { ebiten.SetWindowTitle(title) }

func (b *Backend) SetMode(mode platform.WindowMode) {
	ebiten.SetFullscreen(mode == platform.WindowFullscreen)
	switch mode {
	case platform.WindowNormal:
		ebiten.RestoreWindow()
	case platform.WindowMaximized:
		ebiten.MaximizeWindow()
	}
}

func (b *Backend) SetIcon(pix []byte, w, h int) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	ebiten.SetWindowIcon([]image.Image{img})
}

// StartTextInput is implicit: ebiten always reports input characters.
func (b *Backend) StartTextInput() {}

// WaitEvent cannot block inside an ebiten tick. It reports whether the
// synthetic queue holds anything; the tick rate bounds the loop instead.
func (b *Backend) WaitEvent(time.Duration) bool { return b.Len() > 0 }

func (b *Backend) Scale() float64 { return ebiten.Monitor().DeviceScaleFactor() }

func (b *Backend) Close() {
	if b.front != nil {
		b.front.Deallocate()
	}
	if b.pending != nil {
		b.pending.Deallocate()
	}
}

type texture struct {
	img  *ebiten.Image
	w, h int
	rows []byte
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) Update(rect *image.Rectangle, pixels []byte, pitch int) error {
	r := image.Rect(0, 0, t.w, t.h)
	if rect != nil {
		r = *rect
	}
	rowBytes := r.Dx() * 4
	if rect == nil && pitch == rowBytes {
		t.img.WritePixels(pixels[:rowBytes*r.Dy()])
		return nil
	}
	t.rows = packRows(t.rows, pixels, pitch, rowBytes, r.Dy())
	t.img.SubImage(r).(*ebiten.Image).WritePixels(t.rows)
	return nil
}

// packRows copies rows of rowBytes each, pitch bytes apart in src, into a
// tightly packed buffer as WritePixels expects. dst is reused when large
// enough.
func packRows(dst, src []byte, pitch, rowBytes, rows int) []byte {
	need := rowBytes * rows
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for row := 0; row < rows; row++ {
		copy(dst[row*rowBytes:(row+1)*rowBytes], src[row*pitch:])
	}
	return dst
}

func (t *texture) Destroy() { t.img.Deallocate() }

var keyNames = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:    "left",
	ebiten.KeyArrowRight:   "right",
	ebiten.KeyArrowUp:      "up",
	ebiten.KeyArrowDown:    "down",
	ebiten.KeyEnter:        "return",
	ebiten.KeyNumpadEnter:  "keypad enter",
	ebiten.KeyControlLeft:  "left ctrl",
	ebiten.KeyControlRight: "right ctrl",
	ebiten.KeyShiftLeft:    "left shift",
	ebiten.KeyShiftRight:   "right shift",
	ebiten.KeyAltLeft:      "left alt",
	ebiten.KeyAltRight:     "right alt",
	ebiten.KeyMetaLeft:     "left gui",
	ebiten.KeyMetaRight:    "right gui",
	ebiten.KeyPageUp:       "pageup",
	ebiten.KeyPageDown:     "pagedown",
	ebiten.KeyMinus:        "-",
	ebiten.KeyEqual:        "=",
	ebiten.KeyComma:        ",",
	ebiten.KeyPeriod:       ".",
	ebiten.KeySlash:        "/",
	ebiten.KeyBackslash:    "\\",
	ebiten.KeySemicolon:    ";",
	ebiten.KeyQuote:        "'",
	ebiten.KeyBracketLeft:  "[",
	ebiten.KeyBracketRight: "]",
	ebiten.KeyBackquote:    "`",
}

// keyName maps ebiten keys onto the SDL key names scripts expect.
func keyName(k ebiten.Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	s := k.String()
	if digit, ok := strings.CutPrefix(s, "Digit"); ok {
		return digit
	}
	return strings.ToLower(s)
}
