// Package config holds the compiled-in defaults of the visualiser and validates overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guidoenr/beatvis/internal/params"
)

// ReferenceSize is the screen dimension that maps to a size multiplier of 1.
const ReferenceSize = 512

// Config is the startup configuration surface.
type Config struct {
	ChunkSize  int     `validate:"required,gte=64,lte=65536"`
	SampleRate float64 `validate:"required,gte=8000,lte=384000"`
	Channels   int     `validate:"required,gte=1,lte=2"`
	DeviceName string  `validate:"omitempty,max=256"`

	// Circle false selects the plain brightness field.
	Circle bool
	Shaded bool

	Palette    params.Palette `validate:"required,min=1,dive"`
	Accent     string         `validate:"required"`
	Background string         `validate:"omitempty,oneof=gray grey proportional white black none"`

	// SizeMultiplier is used as is when AutoSize is false.
	SizeMultiplier float64 `validate:"gt=0,lte=64"`
	AutoSize       bool
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ChunkSize:      1024,
		SampleRate:     44100,
		Channels:       2,
		Circle:         true,
		Shaded:         true,
		Palette:        params.DefaultPalette(),
		Accent:         "green_aurora",
		Background:     "black",
		SizeMultiplier: 3.5,
		AutoSize:       true,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		entry := sl.Current().Interface().(params.NamedColor)
		if strings.TrimSpace(entry.Name) == "" {
			sl.ReportError(entry.Name, "Name", "Name", "required", "")
		}
	}, params.NamedColor{})
	return v
}

// Validate checks field ranges and that the accent names a palette color.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatValidationMessage(e))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Palette.Lookup(c.Accent); err != nil {
		return fmt.Errorf("invalid config: accent: %w", err)
	}
	return nil
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Namespace() + " is required"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", e.Namespace(), e.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", e.Namespace(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Namespace(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag())
	}
}

// SizeMultiplier derives the circle scale from the smaller screen dimension.
// The result is never below 1/ReferenceSize so tiny surfaces still show a circle.
func SizeMultiplier(width, height int, reference float64) float64 {
	if reference <= 0 {
		reference = ReferenceSize
	}
	smaller := math.Min(float64(width), float64(height))
	return math.Max(smaller/reference, 1/reference)
}

// State builds the initial display state for a surface of the given size.
func (c Config) State(width, height int) (params.State, error) {
	accent, err := c.Palette.Lookup(c.Accent)
	if err != nil {
		return params.State{}, err
	}
	background, err := params.ParseBackground(c.Background)
	if err != nil {
		return params.State{}, err
	}

	mode := params.ModePlain
	if c.Circle {
		mode = params.ModeCircleSolid
		if c.Shaded {
			mode = params.ModeCircleShaded
		}
	}

	multiplier := c.SizeMultiplier
	if c.AutoSize {
		multiplier = SizeMultiplier(width, height, ReferenceSize)
	}

	return params.State{
		Mode:           mode,
		Background:     background,
		Accent:         accent,
		Palette:        c.Palette,
		SizeMultiplier: multiplier,
	}, nil
}
