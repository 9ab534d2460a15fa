//go:build sdl

package display

import (
	"fmt"
	"image"
	"runtime"

	"github.com/guidoenr/beatvis/internal/input"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL calls must come from the thread that initialized the library.
func init() {
	runtime.LockOSThread()
}

// SDL is a borderless full-screen window backed by a streaming texture.
type SDL struct {
	window      *sdl.Window
	renderer    *sdl.Renderer
	texture     *sdl.Texture
	width       int
	height      int
	windowTitle string
}

// OpenSDL creates a full-screen window sized to the current display mode.
func OpenSDL() (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	s := &SDL{}
	if err := s.open(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SDL) open() error {
	mode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		return fmt.Errorf("display mode: %w", err)
	}
	s.width = int(mode.W)
	s.height = int(mode.H)

	window, err := sdl.CreateWindow(
		Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		mode.W, mode.H,
		sdl.WINDOW_SHOWN|sdl.WINDOW_FULLSCREEN_DESKTOP,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	s.window = window
	s.windowTitle = Title

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	s.renderer = renderer
	_ = renderer.SetLogicalSize(mode.W, mode.H)

	tex, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		mode.W, mode.H,
	)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	s.texture = tex

	sdl.ShowCursor(sdl.DISABLE)
	return nil
}

func (s *SDL) Size() (int, int) { return s.width, s.height }

// Present uploads frame into the texture and flips. ABGR8888 matches image.RGBA's byte order.
func (s *SDL) Present(frame *image.RGBA, status string) error {
	if status != "" && status != s.windowTitle {
		s.window.SetTitle(status)
		s.windowTitle = status
	}

	pixels, pitch, err := s.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	rowBytes := s.width * 4
	for y := 0; y < s.height && y < frame.Rect.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+min(rowBytes, frame.Stride)]
		copy(pixels[y*pitch:], src)
	}
	s.texture.Unlock()

	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

// Poll drains the SDL event queue.
func (s *SDL) Poll() []input.Event {
	var events []input.Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			events = append(events, input.QuitEvent())
		case *sdl.KeyboardEvent:
			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}
			events = append(events, input.KeyEvent(keyFromSDL(ev.Keysym.Sym)))
		}
	}
	return events
}

func keyFromSDL(code sdl.Keycode) input.Key {
	switch code {
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_VOLUMEUP:
		return input.KeyVolumeUp
	case sdl.K_VOLUMEDOWN:
		return input.KeyVolumeDown
	case sdl.K_q:
		return input.KeyQ
	case sdl.K_e:
		return input.KeyE
	case sdl.K_a:
		return input.KeyA
	case sdl.K_s:
		return input.KeyS
	case sdl.K_d:
		return input.KeyD
	default:
		return input.KeyUnknown
	}
}

// Close destroys the window and shuts SDL down, restoring the cursor.
func (s *SDL) Close() error {
	sdl.ShowCursor(sdl.ENABLE)
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
	return nil
}

// Open returns the SDL surface.
func Open(opts Options) (Surface, error) {
	if opts.Terminal {
		return openTerminalSurface(opts)
	}
	s, err := OpenSDL()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SupportsSDL reports whether the binary was built with the SDL backend.
func SupportsSDL() bool { return true }
