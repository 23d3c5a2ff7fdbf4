package ui

import "image/color"

type Theme struct {
	Background color.RGBA
	Page       color.RGBA
	Border     color.RGBA
	Text       color.RGBA
	StatusBar  color.RGBA
	StatusText color.RGBA
	Accent     color.RGBA
	Marker     color.RGBA
	// Sizes in dp, scaled by the display scale.
	StatusHeightDp int
	MarginDp       int
	PaddingDp      int
	MarkerDp       int
}

func DefaultTheme() Theme {
	return Theme{
		Background:     color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:           color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Text:           color.RGBA{0x20, 0x20, 0x20, 0xFF},
		StatusBar:      color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		StatusText:     color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		Accent:         color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Marker:         color.RGBA{0xA3, 0x15, 0x15, 0xFF},
		StatusHeightDp: 24,
		MarginDp:       16,
		PaddingDp:      10,
		MarkerDp:       6,
	}
}
