package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/guidoenr/beatvis/internal/audio"
	"github.com/guidoenr/beatvis/internal/config"
	"github.com/guidoenr/beatvis/internal/display"
	"github.com/guidoenr/beatvis/internal/input"
	"github.com/guidoenr/beatvis/internal/loudness"
	"github.com/guidoenr/beatvis/internal/params"
	"github.com/guidoenr/beatvis/internal/render"
	"github.com/guidoenr/beatvis/internal/transport"
)

// Config configures the application runtime.
type Config struct {
	Settings     config.Config
	DisableAudio bool
	Display      display.Options
	ProfilePath  string
	Log          *log.Logger
}

// FrameSource delivers one audio chunk per call, blocking until it is available.
type FrameSource interface {
	NextFrame() (audio.Frame, error)
	Close() error
}

// App ties together audio capture, loudness normalization, rendering and input.
type App struct {
	source     FrameSource
	surface    display.Surface
	transport  transport.Commander
	normalizer *loudness.Normalizer
	renderer   *render.Renderer
	controller *input.Controller
	state      params.State
	prof       *profiler
	log        *log.Logger
	frames     int
	closeOnce  sync.Once
	closeErr   error
}

// New validates cfg and opens the capture stream, the display surface and the media transport.
func New(cfg Config) (*App, error) {
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	audioCfg := audio.Config{
		DeviceName: cfg.Settings.DeviceName,
		ChunkSize:  cfg.Settings.ChunkSize,
		Channels:   cfg.Settings.Channels,
		SampleRate: cfg.Settings.SampleRate,
	}

	var source FrameSource
	if cfg.DisableAudio {
		source = audio.NewSynthetic(audioCfg, true)
		cfg.Log.Println("audio disabled, using synthetic generator")
	} else {
		capture, err := audio.NewCapture(audioCfg)
		if err != nil {
			return nil, fmt.Errorf("audio capture: %w", err)
		}
		if info := capture.Device(); info != nil {
			cfg.Log.Printf("audio capture started on \"%s\" @ %.0f Hz", info.Name, capture.SampleRate())
		} else {
			cfg.Log.Printf("audio capture started @ %.0f Hz", capture.SampleRate())
		}
		source = capture
	}

	surface, err := display.Open(cfg.Display)
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("display: %w", err)
	}

	a, err := assemble(cfg, source, surface, transport.Open(cfg.Log))
	if err != nil {
		_ = source.Close()
		_ = surface.Close()
		return nil, err
	}
	return a, nil
}

func assemble(cfg Config, source FrameSource, surface display.Surface, commander transport.Commander) (*App, error) {
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	width, height := surface.Size()
	state, err := cfg.Settings.State(width, height)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(width, height)
	if err != nil {
		return nil, err
	}

	a := &App{
		source:     source,
		surface:    surface,
		transport:  commander,
		normalizer: loudness.New(),
		renderer:   renderer,
		state:      state,
		prof:       newProfiler(cfg.ProfilePath, cfg.Log),
		log:        cfg.Log,
	}
	var tr input.Transport
	if commander != nil {
		tr = commander
	}
	a.controller = input.NewController(&a.state, a.normalizer, tr, cfg.Log)

	a.log.Printf("display %dx%d mode=%s bg=%s size=%.2f", width, height, state.Mode, state.Background, state.SizeMultiplier)
	return a, nil
}

// Run samples, renders and handles input until a quit event, a capture failure or ctx
// cancellation. Cancellation is only noticed between frames.
func (a *App) Run(ctx context.Context) error {
	for {
		a.prof.beginFrame()

		frame, err := a.source.NextFrame()
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		a.prof.markSection("capture")

		sample := a.normalizer.Observe(frame)
		img := a.renderer.Render(sample, a.state)
		status := a.renderer.StatusLine(sample, a.normalizer.Peak(), a.state)
		a.prof.markSection("render")

		if err := a.surface.Present(img, status); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		a.prof.markSection("present")

		quit := a.controller.Apply(input.Actions(a.surface.Poll()))
		a.prof.markSection("input")
		a.prof.endFrame()
		a.frames++

		if quit {
			a.log.Printf("quit after %d frames", a.frames)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Close releases the capture stream, the display surface and the transport.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if a.source != nil {
			errs = append(errs, a.source.Close())
		}
		if a.surface != nil {
			errs = append(errs, a.surface.Close())
		}
		if a.transport != nil {
			errs = append(errs, a.transport.Close())
		}
		errs = append(errs, a.prof.Close())
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// State returns a copy of the current display state.
func (a *App) State() params.State {
	return a.state
}

// Frames returns the number of completed loop iterations.
func (a *App) Frames() int {
	return a.frames
}
