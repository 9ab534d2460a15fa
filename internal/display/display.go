// Package display provides the drawable surfaces the visualiser presents frames on.
package display

import (
	"image"

	"github.com/guidoenr/beatvis/internal/input"
)

// Surface is a full-screen drawable target with its own event queue.
type Surface interface {
	// Size is the pixel size frames must be rendered at. It is fixed for the surface lifetime.
	Size() (width, height int)
	// Present shows frame and the status text, once per loop iteration.
	Present(frame *image.RGBA, status string) error
	// Poll drains pending UI events without blocking.
	Poll() []input.Event
	Close() error
}

// Title is the window caption before the first status update.
const Title = "Beat Visualiser"
