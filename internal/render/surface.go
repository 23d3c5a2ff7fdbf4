package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is fixed: every surface is 32-bit ABGR8888, which on
// little-endian hosts puts R,G,B,A in memory order.
const BytesPerPixel = 4

const maxSurfaceBytes = 1 << 30

var ErrSurfaceSize = errors.New("invalid surface size")

type Surface struct {
	W     int
	H     int
	Pitch int
	Pix   []uint8 // RGBA byte order
}

func NewSurface(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurfaceSize, w, h)
	}
	pitch := w * BytesPerPixel
	if h > maxSurfaceBytes/pitch {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d bytes", ErrSurfaceSize, w, h, maxSurfaceBytes)
	}
	return &Surface{W: w, H: h, Pitch: pitch, Pix: make([]uint8, pitch*h)}, nil
}

// Offset returns the byte offset of pixel (x, y).
func (s *Surface) Offset(x, y int) int {
	return s.Pitch*y + x*BytesPerPixel
}

// RGBA returns an image view sharing the surface memory.
func (s *Surface) RGBA() *image.RGBA {
	return &image.RGBA{Pix: s.Pix, Stride: s.Pitch, Rect: image.Rect(0, 0, s.W, s.H)}
}

func (s *Surface) Clear(c color.RGBA) {
	for i := 0; i < len(s.Pix); i += BytesPerPixel {
		s.Pix[i+0] = c.R
		s.Pix[i+1] = c.G
		s.Pix[i+2] = c.B
		s.Pix[i+3] = c.A
	}
}

func (s *Surface) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > s.W {
		w = s.W - x
	}
	if y+h > s.H {
		h = s.H - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		off := s.Offset(x, y+row)
		for col := 0; col < w; col++ {
			idx := off + col*BytesPerPixel
			s.Pix[idx+0] = c.R
			s.Pix[idx+1] = c.G
			s.Pix[idx+2] = c.B
			s.Pix[idx+3] = c.A
		}
	}
}

func (s *Surface) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	s.FillRect(x, y, w, line, c)
	s.FillRect(x, y+h-line, w, line, c)
	s.FillRect(x, y, line, h, c)
	s.FillRect(x+w-line, y, line, h, c)
}
