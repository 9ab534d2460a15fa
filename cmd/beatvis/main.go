package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/guidoenr/beatvis/internal/app"
	"github.com/guidoenr/beatvis/internal/audio"
	"github.com/guidoenr/beatvis/internal/config"
	"github.com/guidoenr/beatvis/internal/display"
)

func main() {
	defaults := config.Defaults()
	var (
		deviceName = flag.String("audio-device", "", "PortAudio input device name (substring match); default prefers Stereo Mix/monitor devices")
		noAudio    = flag.Bool("no-audio", false, "Run with synthetic audio (for testing)")
		listDevs   = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
		plain      = flag.Bool("plain", !defaults.Circle, "Fill the screen with loudness-following gray instead of drawing a circle")
		solid      = flag.Bool("solid", !defaults.Shaded, "Start with the solid circle instead of the shaded one")
		accent     = flag.String("color", defaults.Accent, "Initial accent color (purple|green_aurora|green)")
		background = flag.String("background", defaults.Background, "Circle background (gray|white|black)")
		size       = flag.Float64("size", 0, "Fixed circle size multiplier; 0 derives it from the screen size")
		terminal   = flag.Bool("terminal", false, "Render to the terminal even when built with SDL")
		showStatus = flag.Bool("status", true, "Display status bar in terminal mode")
		profile    = flag.String("profile", "", "Append per-frame timings as CSV to this file")
		debug      = flag.Bool("debug", false, "Enable verbose logging")
	)

	flag.Parse()

	logger := log.New(os.Stdout, "[beatvis] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	settings := defaults
	settings.DeviceName = *deviceName
	settings.Circle = !*plain
	settings.Shaded = !*solid
	settings.Accent = *accent
	settings.Background = *background
	if *size > 0 {
		settings.SizeMultiplier = *size
		settings.AutoSize = false
	}
	if err := settings.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	needAudio := !*noAudio || *listDevs
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatalf("failed to initialize PortAudio: %v", err)
		}
		defer audio.Terminate()
	}

	if *listDevs {
		devices, err := audio.ListDevices()
		if err != nil {
			logger.Fatalf("list devices: %v", err)
		}
		fmt.Printf("\n=== Audio Input Devices ===\n\n")
		for _, dev := range devices {
			markers := ""
			if dev.IsDefaultInput {
				markers += " (default)"
			}
			if dev.IsLoopback {
				markers += " (loopback)"
			}
			fmt.Printf("- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
				dev.Name, dev.HostAPI, markers, dev.MaxInput, dev.DefaultSampleHz)
		}
		if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
			fmt.Printf("\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Config{
		Settings:     settings,
		DisableAudio: *noAudio,
		Display: display.Options{
			Terminal:   *terminal || !display.SupportsSDL(),
			ShowStatus: *showStatus,
		},
		ProfilePath: *profile,
		Log:         logger,
	})
	if err != nil {
		audio.Terminate()
		logger.Fatalf("failed to start: %v", err)
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
	}
	if runErr != nil && ctx.Err() == nil {
		audio.Terminate()
		logger.Fatalf("runtime error: %v", runErr)
	}
}
