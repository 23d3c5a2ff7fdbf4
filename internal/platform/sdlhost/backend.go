//go:build sdl

// Package sdlhost maps the platform layer directly onto SDL2. Build with
// -tags sdl; it needs cgo and the SDL2 development libraries.
package sdlhost

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"rein/internal/platform"
)

func init() {
	// SDL must stay on the thread that initialized video.
	runtime.LockOSThread()
}

const waitStep = 10 * time.Millisecond

var sdlTypes = map[platform.HostEventKind]uint32{
	platform.HostQuit:               sdl.QUIT,
	platform.HostDidEnterBackground: sdl.APP_DIDENTERBACKGROUND,
	platform.HostDidEnterForeground: sdl.APP_DIDENTERFOREGROUND,
	platform.HostWindow:             sdl.WINDOWEVENT,
	platform.HostKeyDown:            sdl.KEYDOWN,
	platform.HostKeyUp:              sdl.KEYUP,
	platform.HostTextInput:          sdl.TEXTINPUT,
	platform.HostTextEditing:        sdl.TEXTEDITING,
	platform.HostMouseButtonDown:    sdl.MOUSEBUTTONDOWN,
	platform.HostMouseButtonUp:      sdl.MOUSEBUTTONUP,
	platform.HostMouseMotion:        sdl.MOUSEMOTION,
	platform.HostMouseWheel:         sdl.MOUSEWHEEL,
}

type Backend struct {
	log      *slog.Logger
	window   *sdl.Window
	renderer *sdl.Renderer
	partial  bool
	edits    bool
	peek     []sdl.Event
}

func New(cfg platform.WindowConfig, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	mode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("display mode: %w", err)
	}
	w := int32(float64(mode.W) * cfg.WidthFraction)
	h := int32(float64(mode.H) * cfg.HeightFraction)
	window, renderer, err := sdl.CreateWindowAndRenderer(w, h, sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}
	b := &Backend{
		log:      log,
		window:   window,
		renderer: renderer,
		// Composition events are only surfaced on mobile keyboards.
		edits: runtime.GOOS == "android",
		peek:  make([]sdl.Event, 1),
	}
	if info, err := renderer.GetInfo(); err == nil {
		// Accelerated renderers lose partial updates when they swap buffers.
		b.partial = info.Flags&sdl.RENDERER_ACCELERATED == 0
		log.Debug("renderer", "name", info.Name, "partial", b.partial)
	}
	if err := renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE); err != nil {
		log.Warn("set blend mode", "err", err)
	}
	window.SetTitle(cfg.Title)
	b.SetMode(cfg.Mode)
	return b, nil
}

func (b *Backend) Name() string { return sdl.GetPlatform() }

func (b *Backend) PollEvent() (platform.HostEvent, bool) {
	e := sdl.PollEvent()
	if e == nil {
		return platform.HostEvent{}, false
	}
	return b.convert(e), true
}

func (b *Backend) TakeEvent(kind platform.HostEventKind) (platform.HostEvent, bool) {
	t, ok := sdlTypes[kind]
	if !ok {
		return platform.HostEvent{}, false
	}
	n, err := sdl.PeepEvents(b.peek, sdl.GETEVENT, t, t)
	if err != nil || n <= 0 {
		return platform.HostEvent{}, false
	}
	return b.convert(b.peek[0]), true
}

func (b *Backend) FlushEvents(kinds ...platform.HostEventKind) {
	for _, kind := range kinds {
		if t, ok := sdlTypes[kind]; ok {
			sdl.FlushEvent(t)
		}
	}
}

func (b *Backend) convert(e sdl.Event) platform.HostEvent {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		return platform.HostEvent{Kind: platform.HostQuit}
	case *sdl.WindowEvent:
		ev := platform.HostEvent{Kind: platform.HostWindow, Data1: int(e.Data1), Data2: int(e.Data2)}
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED:
			ev.Window = platform.WindowResized
		case sdl.WINDOWEVENT_EXPOSED:
			ev.Window = platform.WindowExposed
		case sdl.WINDOWEVENT_RESTORED:
			ev.Window = platform.WindowRestored
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			ev.Window = platform.WindowFocusGained
		}
		return ev
	case *sdl.KeyboardEvent:
		kind := platform.HostKeyDown
		if e.Type == sdl.KEYUP {
			kind = platform.HostKeyUp
		}
		return platform.HostEvent{Kind: kind, Key: int(e.Keysym.Sym)}
	case *sdl.TextInputEvent:
		return platform.HostEvent{Kind: platform.HostTextInput, Text: e.GetText()}
	case *sdl.TextEditingEvent:
		if !b.edits {
			return platform.HostEvent{Kind: platform.HostOther}
		}
		return platform.HostEvent{Kind: platform.HostTextEditing, Text: e.GetText()}
	case *sdl.MouseButtonEvent:
		kind := platform.HostMouseButtonDown
		if e.Type == sdl.MOUSEBUTTONUP {
			kind = platform.HostMouseButtonUp
		}
		return platform.HostEvent{Kind: kind, Button: int(e.Button), Clicks: int(e.Clicks), X: int(e.X), Y: int(e.Y)}
	case *sdl.MouseMotionEvent:
		return platform.HostEvent{Kind: platform.HostMouseMotion, X: int(e.X), Y: int(e.Y), DX: int(e.XRel), DY: int(e.YRel)}
	case *sdl.MouseWheelEvent:
		return platform.HostEvent{Kind: platform.HostMouseWheel, WheelY: int(e.Y)}
	}
	switch e.GetType() {
	case sdl.APP_DIDENTERBACKGROUND:
		return platform.HostEvent{Kind: platform.HostDidEnterBackground}
	case sdl.APP_DIDENTERFOREGROUND:
		return platform.HostEvent{Kind: platform.HostDidEnterForeground}
	}
	return platform.HostEvent{Kind: platform.HostOther}
}

func (b *Backend) KeyName(key int) string {
	return sdl.GetKeyName(sdl.Keycode(key))
}

func (b *Backend) CaptureMouse(on bool) error {
	return sdl.CaptureMouse(on)
}

func (b *Backend) WindowSize() (int, int) {
	w, h := b.window.GetSize()
	return int(w), int(h)
}

func (b *Backend) CreateTexture(w, h int) (platform.Texture, error) {
	tex, err := b.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		return nil, err
	}
	return &texture{tex: tex, w: w, h: h}, nil
}

func (b *Backend) Copy(tex platform.Texture, rect *image.Rectangle) error {
	t, ok := tex.(*texture)
	if !ok {
		return errors.New("sdlhost: foreign texture")
	}
	r := sdlRect(rect)
	return b.renderer.Copy(t.tex, r, r)
}

func (b *Backend) Present()             { b.renderer.Present() }
func (b *Backend) PartialUpdates() bool { return b.partial }

func (b *Backend) SetTitle(title string) { b.window.SetTitle(title) }

func (b *Backend) SetMode(mode platform.WindowMode) {
	var flags uint32
	if mode == platform.WindowFullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := b.window.SetFullscreen(flags); err != nil {
		b.log.Warn("set fullscreen", "err", err)
	}
	switch mode {
	case platform.WindowNormal:
		b.window.Restore()
	case platform.WindowMaximized:
		b.window.Maximize()
	}
}

func (b *Backend) SetIcon(pix []byte, w, h int) {
	if len(pix) < w*h*4 || w <= 0 || h <= 0 {
		return
	}
	surf, err := sdl.CreateRGBSurfaceFrom(unsafe.Pointer(&pix[0]), int32(w), int32(h), 32, w*4,
		0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)
	if err != nil {
		b.log.Warn("icon surface", "err", err)
		return
	}
	b.window.SetIcon(surf)
	surf.Free()
}

func (b *Backend) StartTextInput() { sdl.StartTextInput() }

// WaitEvent polls every 10ms rather than using SDL_WaitEventTimeout, which
// oversleeps on SDL releases after 2.0.16.
func (b *Backend) WaitEvent(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		sdl.PumpEvents()
		n, err := sdl.PeepEvents(b.peek, sdl.PEEKEVENT, sdl.FIRSTEVENT, sdl.LASTEVENT)
		switch {
		case err != nil:
			return false
		case n > 0:
			return true
		case timeout == 0:
			return false
		case timeout > 0 && !time.Now().Before(deadline):
			return false
		}
		time.Sleep(waitStep)
	}
}

func (b *Backend) Scale() float64 {
	_, hdpi, _, err := sdl.GetDisplayDPI(0)
	if err != nil || hdpi <= 0 {
		return 1
	}
	return float64(hdpi) / 96
}

func (b *Backend) Run(frame func() error) error {
	for {
		if err := frame(); err != nil {
			if errors.Is(err, platform.ErrQuit) {
				return nil
			}
			return err
		}
	}
}

func (b *Backend) Close() {
	if b.renderer != nil {
		_ = b.renderer.Destroy()
	}
	if b.window != nil {
		_ = b.window.Destroy()
	}
	sdl.Quit()
}

type texture struct {
	tex  *sdl.Texture
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) Update(rect *image.Rectangle, pixels []byte, pitch int) error {
	if len(pixels) == 0 {
		return nil
	}
	return t.tex.Update(sdlRect(rect), unsafe.Pointer(&pixels[0]), pitch)
}

func (t *texture) Destroy() { _ = t.tex.Destroy() }

func sdlRect(r *image.Rectangle) *sdl.Rect {
	if r == nil {
		return nil
	}
	return &sdl.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())}
}
