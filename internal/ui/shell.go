package ui

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"rein/internal/render"
)

type Layout struct {
	PageX    int
	PageY    int
	PageW    int
	PageH    int
	ContentX int
	ContentY int
	ContentW int
	ContentH int
	StatusY  int
	StatusH  int
}

// Status is the status bar rectangle, the region redrawn on clock ticks.
func (l Layout) Status(w int) image.Rectangle {
	return image.Rect(0, l.StatusY, w, l.StatusY+l.StatusH)
}

func ComputeLayout(w, h int, theme Theme, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float64(v) * scale) }

	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.MarginDp)
	pad := dp(theme.PaddingDp)

	pageW := max(w-margin*2, 0)
	pageH := max(h-statusH-margin*2, 0)

	return Layout{
		PageX:    margin,
		PageY:    margin,
		PageW:    pageW,
		PageH:    pageH,
		ContentX: margin + pad,
		ContentY: margin + pad,
		ContentW: max(pageW-pad*2, 0),
		ContentH: max(pageH-pad*2, 0),
		StatusY:  h - statusH,
		StatusH:  statusH,
	}
}

func DrawShell(s *render.Surface, theme Theme, layout Layout) {
	s.Clear(theme.Background)

	s.FillRect(layout.PageX, layout.PageY, layout.PageW, layout.PageH, theme.Page)
	s.StrokeRect(layout.PageX, layout.PageY, layout.PageW, layout.PageH, 1, theme.Border)
	s.FillRect(layout.PageX, layout.PageY, layout.PageW, 2, theme.Accent)

	DrawStatus(s, theme, layout, "")
}

// DrawStatus repaints only the status bar.
func DrawStatus(s *render.Surface, theme Theme, layout Layout, text string) {
	s.FillRect(0, layout.StatusY, s.W, layout.StatusH, theme.StatusBar)
	s.FillRect(0, layout.StatusY, s.W, 1, theme.Border)
	if text == "" {
		return
	}
	face := Face()
	baseline := layout.StatusY + (layout.StatusH+face.Metrics().Ascent.Ceil())/2
	DrawString(s, face, 8, baseline, text, theme.StatusText)
}

func Face() font.Face { return basicfont.Face7x13 }

// LineHeight is the vertical advance between text lines.
func LineHeight(face font.Face) int { return face.Metrics().Height.Ceil() }

func DrawString(s *render.Surface, face font.Face, x, baseline int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  s.RGBA(),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

// DrawText draws text line by line into the content box, skipping the
// first skip pixels of the text and clipping at the box bottom.
func DrawText(s *render.Surface, theme Theme, layout Layout, text string, skip int) {
	face := Face()
	lh := LineHeight(face)
	ascent := face.Metrics().Ascent.Ceil()
	clip := image.Rect(layout.ContentX, layout.ContentY, layout.ContentX+layout.ContentW, layout.ContentY+layout.ContentH)
	dst := s.RGBA().SubImage(clip).(*image.RGBA)
	for i, line := range strings.Split(text, "\n") {
		top := layout.ContentY + i*lh - skip
		if top+lh <= layout.ContentY {
			continue
		}
		if top >= clip.Max.Y {
			break
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(theme.Text),
			Face: face,
			Dot:  fixed.P(layout.ContentX, top+ascent),
		}
		d.DrawString(line)
	}
}
