package params

import (
	"fmt"
	"math/rand"
	"strings"
)

// Color is an accent color. A is kept for palette fidelity but ignored when drawing on the opaque surface.
type Color struct {
	R, G, B, A uint8
}

// Channel returns the i-th RGB channel.
func (c Color) Channel(i int) uint8 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// RGB is Color{r, g, b, 255}.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// NamedColor is one palette entry.
type NamedColor struct {
	Name  string
	Color Color
}

// Palette is an ordered set of named accent colors.
type Palette []NamedColor

// DefaultPalette returns the built-in accent colors.
func DefaultPalette() Palette {
	return Palette{
		{Name: "purple", Color: Color{R: 255, G: 0, B: 80, A: 127}},
		{Name: "green_aurora", Color: Color{R: 0, G: 255, B: 80, A: 127}},
		{Name: "green", Color: RGB(0, 255, 0)},
	}
}

// Lookup returns the color registered under name.
func (p Palette) Lookup(name string) (Color, error) {
	for _, entry := range p {
		if strings.EqualFold(entry.Name, name) {
			return entry.Color, nil
		}
	}
	return Color{}, fmt.Errorf("color %q not in palette", name)
}

// NameOf returns the palette name of c, or "custom" when c is not in the palette.
func (p Palette) NameOf(c Color) string {
	for _, entry := range p {
		if entry.Color == c {
			return entry.Name
		}
	}
	return "custom"
}

// Names lists palette entry names in order.
func (p Palette) Names() []string {
	names := make([]string, len(p))
	for i, entry := range p {
		names[i] = entry.Name
	}
	return names
}

// PickOther draws uniformly among the palette colors that differ from current.
// With nothing else to choose from it returns the single palette color, or current for an empty palette.
func (p Palette) PickOther(current Color, rng *rand.Rand) Color {
	candidates := make([]Color, 0, len(p))
	for _, entry := range p {
		if entry.Color != current {
			candidates = append(candidates, entry.Color)
		}
	}
	switch {
	case len(candidates) > 0:
		return candidates[rng.Intn(len(candidates))]
	case len(p) > 0:
		return p[0].Color
	default:
		return current
	}
}
