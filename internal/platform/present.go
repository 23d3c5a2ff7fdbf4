package platform

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"rein/internal/render"
)

var (
	ErrAllocation = errors.New("pixel buffer allocation failed")
	// ErrQuit is returned by a frame function to stop Host.Run.
	ErrQuit = errors.New("quit")
)

// Context owns the window pixel surface and its paired streaming texture.
// Surface and texture are either both absent or both sized to the window.
type Context struct {
	renderer  Renderer
	log       *slog.Logger
	partial   bool
	surface   *render.Surface
	texture   Texture
	forceFull bool
}

type ContextOption func(*Context)

// WithoutPartialUpdates promotes every Present to a full-surface update
// regardless of what the renderer reports.
func WithoutPartialUpdates() ContextOption {
	return func(c *Context) { c.partial = false }
}

func WithLogger(log *slog.Logger) ContextOption {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

func NewContext(renderer Renderer, opts ...ContextOption) *Context {
	c := &Context{
		renderer: renderer,
		log:      slog.Default(),
		partial:  renderer.PartialUpdates(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PixelBuffer returns the surface to draw the next frame into, recreating it
// and the texture when the window size changed. The returned surface must
// not be kept across a resize.
func (c *Context) PixelBuffer() (*render.Surface, error) {
	w, h := c.renderer.WindowSize()
	if c.surface != nil && (c.surface.W != w || c.surface.H != h) {
		c.Invalidate()
	}
	if c.surface == nil {
		s, err := render.NewSurface(w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		c.surface = s
		c.log.Debug("surface created", "w", w, "h", h)
	}
	if c.texture == nil {
		tex, err := c.renderer.CreateTexture(w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: texture %dx%d: %w", ErrAllocation, w, h, err)
		}
		c.texture = tex
		c.forceFull = true
		c.log.Debug("texture created", "w", w, "h", h)
	}
	return c.surface, nil
}

// Present uploads and shows the surface. A positive w and h select a
// partial update of that rectangle; anything else, or a buffer that was
// just recreated, presents the whole surface. Without a valid buffer pair
// it does nothing.
func (c *Context) Present(x, y, w, h int) {
	if c.surface == nil || c.texture == nil {
		return
	}
	if !c.partial || c.forceFull {
		w = -1
	}
	s := c.surface
	if w > 0 && h > 0 {
		rect := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, s.W, s.H))
		if rect.Empty() {
			return
		}
		if !c.draw(&rect, s.Pix[s.Offset(rect.Min.X, rect.Min.Y):]) {
			return
		}
		c.renderer.Present()
		return
	}
	if !c.draw(nil, s.Pix) {
		return
	}
	if c.forceFull {
		// Right after recreation one frame is lost to double buffering.
		c.renderer.Present()
		if !c.draw(nil, s.Pix) {
			return
		}
	}
	c.renderer.Present()
	c.forceFull = false
}

func (c *Context) draw(rect *image.Rectangle, pixels []byte) bool {
	if err := c.texture.Update(rect, pixels, c.surface.Pitch); err != nil {
		c.log.Debug("texture update", "err", err)
		return false
	}
	if err := c.renderer.Copy(c.texture, rect); err != nil {
		c.log.Debug("texture copy", "err", err)
		return false
	}
	return true
}

// Invalidate drops both buffers so the next PixelBuffer call recreates them.
func (c *Context) Invalidate() {
	c.surface = nil
	if c.texture != nil {
		c.texture.Destroy()
		c.texture = nil
	}
	c.forceFull = true
}

// MarkStale forces the next Present to repaint fully twice.
func (c *Context) MarkStale() {
	c.forceFull = true
}

func (c *Context) PartialUpdates() bool { return c.partial }

func (c *Context) Close() {
	c.Invalidate()
}
