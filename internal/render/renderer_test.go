package render

import (
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/guidoenr/beatvis/internal/loudness"
	"github.com/guidoenr/beatvis/internal/params"
)

var aurora = params.Color{R: 0, G: 255, B: 80, A: 127}

func newRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	r, err := New(w, h)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func circleState(mode params.Mode, bg params.Background, multiplier float64) params.State {
	return params.State{
		Mode:           mode,
		Background:     bg,
		Accent:         aurora,
		Palette:        params.DefaultPalette(),
		SizeMultiplier: multiplier,
	}
}

func assertUniform(t *testing.T, img *image.RGBA, want color.RGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d)=%v want=%v", x, y, got, want)
			}
		}
	}
}

func TestNewRejectsInvalidDimensions(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestPlainFollowsNormalizedLevel(t *testing.T) {
	r := newRenderer(t, 8, 6)
	img := r.Render(loudness.Sample{Raw: 100, Normalized: 100, Quantized: 96}, params.State{Mode: params.ModePlain})
	assertUniform(t, img, color.RGBA{R: 100, G: 100, B: 100, A: 255})
}

func TestSilenceDrawsOnlyBackground(t *testing.T) {
	cases := map[params.Background]color.RGBA{
		params.BackgroundGray:  {A: 255},
		params.BackgroundWhite: {R: 255, G: 255, B: 255, A: 255},
		params.BackgroundBlack: {A: 255},
	}
	for bg, want := range cases {
		for _, mode := range []params.Mode{params.ModeCircleSolid, params.ModeCircleShaded} {
			r := newRenderer(t, 32, 24)
			img := r.Render(loudness.Sample{}, circleState(mode, bg, 2))
			assertUniform(t, img, want)
		}
	}
}

func TestSolidDiskAtFullScale(t *testing.T) {
	r := newRenderer(t, 200, 200)
	sample := loudness.Sample{Raw: 255, Normalized: 255, Quantized: 224}
	img := r.Render(sample, circleState(params.ModeCircleSolid, params.BackgroundGray, 0.25))

	c := r.Center()
	want := color.RGBA{R: 224, G: 255, B: 224, A: 255}
	for _, p := range []image.Point{c, c.Add(image.Pt(50, 0)), c.Add(image.Pt(0, -50))} {
		if got := img.RGBAAt(p.X, p.Y); got != want {
			t.Fatalf("inside pixel %v=%v want=%v", p, got, want)
		}
	}
	bg := color.RGBA{R: 224, G: 224, B: 224, A: 255}
	for _, p := range []image.Point{{0, 0}, c.Add(image.Pt(70, 0)), c.Add(image.Pt(0, 70))} {
		if got := img.RGBAAt(p.X, p.Y); got != bg {
			t.Fatalf("outside pixel %v=%v want=%v", p, got, bg)
		}
	}
}

func TestSolidColorClampLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		accent := params.Color{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255}
		q := loudness.Quantize(rng.Intn(256))
		got := solidColor(accent, q)
		channels := [3]uint8{got.R, got.G, got.B}
		for ch := 0; ch < 3; ch++ {
			a := int(accent.Channel(ch))
			want := a
			if a <= q {
				want = q
			}
			if int(channels[ch]) != want || int(channels[ch]) < q || int(channels[ch]) < a {
				t.Fatalf("accent=%v q=%d channel %d=%d want=%d", accent, q, ch, channels[ch], want)
			}
		}
	}
}

func TestRingColorCapsAccent(t *testing.T) {
	got := ringColor(aurora, 100)
	if got != (color.RGBA{R: 0, G: 100, B: 80, A: 255}) {
		t.Fatalf("ringColor=%v", got)
	}
	if got := ringColor(aurora, 0); got != (color.RGBA{A: 255}) {
		t.Fatalf("ringColor at zero=%v", got)
	}
}

func TestShadedGradient(t *testing.T) {
	r := newRenderer(t, 600, 600)
	sample := loudness.Sample{Raw: 255, Normalized: 255, Quantized: 224}
	img := r.Render(sample, circleState(params.ModeCircleShaded, params.BackgroundBlack, 1))

	c := r.Center()
	if got := img.RGBAAt(c.X, c.Y); got != (color.RGBA{R: 0, G: 253, B: 80, A: 255}) {
		t.Fatalf("center=%v", got)
	}
	if got := img.RGBAAt(c.X+254, c.Y); got != (color.RGBA{R: 0, G: 1, B: 1, A: 255}) {
		t.Fatalf("outer ring=%v", got)
	}
	if got := img.RGBAAt(c.X+260, c.Y); got != (color.RGBA{A: 255}) {
		t.Fatalf("outside=%v want black", got)
	}

	// brightness of the green channel falls off from the centre outwards
	last := 256
	for dx := 0; dx <= 254; dx += 10 {
		g := int(img.RGBAAt(c.X+dx, c.Y).G)
		if g > last {
			t.Fatalf("green rose from %d to %d at dx=%d", last, g, dx)
		}
		last = g
	}
}

func TestShadedIsSymmetric(t *testing.T) {
	r := newRenderer(t, 101, 101)
	sample := loudness.Sample{Raw: 40, Normalized: 40, Quantized: 32}
	img := r.Render(sample, circleState(params.ModeCircleShaded, params.BackgroundWhite, 1))
	c := r.Center()
	for d := 0; d < 45; d++ {
		right := img.RGBAAt(c.X+d, c.Y)
		left := img.RGBAAt(c.X-d, c.Y)
		up := img.RGBAAt(c.X, c.Y-d)
		if right != left || right != up {
			t.Fatalf("asymmetric at %d: %v %v %v", d, right, left, up)
		}
	}
}

func TestResizeReallocates(t *testing.T) {
	r := newRenderer(t, 10, 10)
	r.Resize(20, 5)
	w, h := r.Size()
	if w != 20 || h != 5 {
		t.Fatalf("size=%dx%d", w, h)
	}
	img := r.Render(loudness.Sample{}, params.State{Mode: params.ModePlain})
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 5 {
		t.Fatalf("frame bounds=%v", img.Bounds())
	}
}

func TestStatusLine(t *testing.T) {
	r := newRenderer(t, 4, 4)
	st := circleState(params.ModeCircleShaded, params.BackgroundWhite, 1)
	line := r.StatusLine(loudness.Sample{Normalized: 130, Quantized: 128}, 9000, st)
	for _, want := range []string{"shaded", "bg=white", "color=green_aurora", "level 130", "band 128", "peak 9000"} {
		if !strings.Contains(line, want) {
			t.Fatalf("status %q missing %q", line, want)
		}
	}
}

func TestANSIColor(t *testing.T) {
	cases := map[color.RGBA]int{
		{R: 255, G: 255, B: 255, A: 255}: 255,
		{A: 255}:                         232,
		{R: 255, A: 255}:                 196,
		{G: 255, A: 255}:                 46,
	}
	for c, want := range cases {
		if got := ANSIColor(c); got != want {
			t.Fatalf("ANSIColor(%v)=%d want=%d", c, got, want)
		}
	}
}
