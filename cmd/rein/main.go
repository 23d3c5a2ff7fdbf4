package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sqweek/dialog"

	"rein/internal/app"
	"rein/internal/config"
	"rein/internal/platform"
	"rein/internal/platform/ebitenhost"
	"rein/internal/platform/headless"
)

var errNoSDL = errors.New("built without sdl support (rebuild with -tags sdl)")

// newSDLHost is set by backend_sdl.go when built with the sdl tag.
var newSDLHost func(platform.WindowConfig, *slog.Logger) (platform.Host, error)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rein failed: %v\n", err)
		dialog.Message("%v", err).Title("rein").Error()
		os.Exit(1)
	}
}

func run(args []string) error {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		defaultPath = "config.yaml"
	}
	fs := flag.NewFlagSet("rein", flag.ContinueOnError)
	configPath := fs.String("config", defaultPath, "path to config.yaml")
	backend := fs.String("backend", "", "host backend: ebiten, sdl or headless")
	title := fs.String("title", "", "window title")
	mode := fs.String("mode", "", "window mode: normal, maximized or fullscreen")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	frames := fs.Int("frames", 0, "stop the headless backend after this many frames")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *title != "" {
		cfg.Window.Title = *title
	}
	if *mode != "" {
		cfg.Window.Mode = *mode
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	host, err := newHost(cfg, logger, *frames)
	if err != nil {
		return fmt.Errorf("create %s window: %w", cfg.Backend, err)
	}
	logger.Info("window created", "backend", cfg.Backend, "platform", host.Name())

	ctxOpts := []platform.ContextOption{platform.WithLogger(logger)}
	if cfg.PartialUpdates == "off" {
		ctxOpts = append(ctxOpts, platform.WithoutPartialUpdates())
	}
	ctx := platform.NewContext(host, ctxOpts...)

	a := app.New(host, ctx, app.Options{
		WaitTimeout: time.Duration(cfg.WaitTimeout * float64(time.Second)),
		Log:         logger,
	})
	defer a.Close()
	return a.Run()
}

func newHost(cfg *config.Config, logger *slog.Logger, frames int) (platform.Host, error) {
	switch cfg.Backend {
	case "sdl":
		if newSDLHost == nil {
			return nil, errNoSDL
		}
		return newSDLHost(cfg.PlatformWindow(), logger)
	case "headless":
		b := headless.New(640, 480)
		b.MaxFrames = frames
		return b, nil
	default:
		var opts []ebitenhost.Option
		if cfg.PartialUpdates == "on" {
			opts = append(opts, ebitenhost.WithPartialUpdates())
		}
		return ebitenhost.New(cfg.PlatformWindow(), logger, opts...), nil
	}
}
