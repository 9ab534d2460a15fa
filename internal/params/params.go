package params

import (
	"fmt"
	"math/rand"
	"strings"
)

// Mode selects how loudness is visualized.
type Mode int

const (
	ModePlain Mode = iota
	ModeCircleSolid
	ModeCircleShaded
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeCircleSolid:
		return "solid"
	case ModeCircleShaded:
		return "shaded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Background selects the fill behind the circle in circle modes.
type Background int

const (
	BackgroundGray Background = iota
	BackgroundWhite
	BackgroundBlack
)

func (b Background) String() string {
	switch b {
	case BackgroundGray:
		return "gray"
	case BackgroundWhite:
		return "white"
	case BackgroundBlack:
		return "black"
	default:
		return fmt.Sprintf("Background(%d)", int(b))
	}
}

// Next returns the background that follows b in the gray, white, black cycle.
func (b Background) Next() Background {
	switch b {
	case BackgroundGray:
		return BackgroundWhite
	case BackgroundWhite:
		return BackgroundBlack
	default:
		return BackgroundGray
	}
}

// ParseBackground accepts the names produced by Background.String.
func ParseBackground(name string) (Background, error) {
	switch strings.ToLower(name) {
	case "gray", "grey", "proportional":
		return BackgroundGray, nil
	case "white":
		return BackgroundWhite, nil
	case "black", "none", "":
		return BackgroundBlack, nil
	default:
		return BackgroundBlack, fmt.Errorf("unknown background %q", name)
	}
}

// State is the display state shared by the renderer and the input controller.
// It is only ever touched from the main loop.
type State struct {
	Mode           Mode
	Background     Background
	Accent         Color
	Palette        Palette
	SizeMultiplier float64
}

// ToggleShade flips between the solid and shaded circle. Plain mode is a startup option and is left alone.
func (s *State) ToggleShade() {
	switch s.Mode {
	case ModeCircleSolid:
		s.Mode = ModeCircleShaded
	case ModeCircleShaded:
		s.Mode = ModeCircleSolid
	}
}

// CycleBackground advances to the next background.
func (s *State) CycleBackground() {
	s.Background = s.Background.Next()
}

// RandomizeAccent picks a new accent color from the palette, different from the current one
// whenever the palette has another color to offer.
func (s *State) RandomizeAccent(rng *rand.Rand) {
	s.Accent = s.Palette.PickOther(s.Accent, rng)
}
