//go:build !sdl

package display

// Open returns the terminal surface; the SDL window needs a build with -tags sdl.
func Open(opts Options) (Surface, error) {
	return openTerminalSurface(opts)
}

func SupportsSDL() bool { return false }
