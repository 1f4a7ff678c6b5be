/*
Renders the skeleton and morph target gallery headlessly, writing the
frames to disk or tracing the draw calls.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spaghettifunk/anima-gallery/engine"
	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/gallery"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/raster"
	"github.com/spaghettifunk/anima-gallery/engine/systems"
	"github.com/spaghettifunk/anima-gallery/testbed"
)

type options struct {
	scene   string
	config  string
	frames  int
	out     string
	backend string
	list    bool
	watch   bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.scene, "scene", "", "scene to render (default from config)")
	flag.StringVar(&o.config, "config", "", "TOML configuration file")
	flag.IntVar(&o.frames, "frames", -1, "frames to render, 0 runs until interrupted")
	flag.StringVar(&o.out, "out", "", "output directory for captured frames")
	flag.StringVar(&o.backend, "backend", "raster", "raster or trace")
	flag.BoolVar(&o.list, "list", false, "list the available scenes and exit")
	flag.BoolVar(&o.watch, "watch", false, "reload the configuration file when it changes")
	flag.Parse()
	return o
}

func main() {
	if err := run(parseFlags()); err != nil {
		core.LogError("%s", err.Error())
		os.Exit(1)
	}
}

func run(o *options) error {
	registry := gallery.DefaultRegistry()
	if o.list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}
	if o.scene != "" {
		cfg.Application.Scene = o.scene
	}
	if o.frames >= 0 {
		cfg.Application.Frames = o.frames
	}
	if o.out != "" {
		cfg.Output.Directory = o.out
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	core.SetLogLevel(cfg.LogLevel())

	tg, err := testbed.NewTestGame(cfg, cfg.Application.Scene, registry)
	if err != nil {
		return err
	}

	var (
		backend renderer.RendererBackend
		capture *raster.Capture
		trace   *renderer.Recorder
	)
	switch o.backend {
	case "raster":
		format, err := raster.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}
		rb := raster.NewBackend(cfg.Application.Width, cfg.Application.Height)
		capture = raster.NewCapture(cfg.Output.Directory, cfg.Application.Scene, format,
			cfg.Output.Animated, time.Duration(cfg.Output.FrameDurationMs)*time.Millisecond)
		if !capture.Animated && format != raster.FormatNone {
			js, err := systems.NewJobSystem(runtime.NumCPU(), 16)
			if err != nil {
				return err
			}
			capture.UseJobs(js)
		}
		rb.SetCapture(capture)
		backend = rb
	case "trace":
		trace = renderer.NewRecorder()
		backend = trace
	default:
		return fmt.Errorf("backend %q: %w", o.backend, core.ErrInvalidConfig)
	}

	eng, err := engine.New(tg.Game, backend)
	if err != nil {
		return err
	}
	if err := eng.Initialize(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// start shutdown goroutine
	go func() {
		select {
		case s := <-sigCh:
			core.LogInfo("received %s, stopping", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	if o.watch && o.config != "" {
		err := config.Watch(ctx, o.config, func(c *config.Config) {
			eng.Defer(func() { tg.Reload(c) })
		})
		if err != nil {
			return err
		}
	}

	runErr := eng.Run(ctx)
	if err := eng.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}

	if capture != nil {
		files, err := capture.Flush()
		for _, f := range files {
			core.LogInfo("wrote %s", f)
		}
		if err != nil && runErr == nil {
			runErr = err
		}
	}
	if trace != nil {
		core.LogInfo("trace: %s", trace.Summary())
	}
	return runErr
}
