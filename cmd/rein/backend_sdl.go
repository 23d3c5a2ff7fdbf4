//go:build sdl

package main

import (
	"log/slog"

	"rein/internal/platform"
	"rein/internal/platform/sdlhost"
)

func init() {
	newSDLHost = func(cfg platform.WindowConfig, logger *slog.Logger) (platform.Host, error) {
		b, err := sdlhost.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}
