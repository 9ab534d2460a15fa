package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/guidoenr/beatvis/internal/loudness"
	"github.com/guidoenr/beatvis/internal/params"
	"golang.org/x/image/vector"
)

// Renderer draws loudness samples into a reused full-surface framebuffer.
type Renderer struct {
	width         int
	height        int
	frame         *image.RGBA
	raster        *vector.Rasterizer
	statusBuilder strings.Builder
}

// New creates a Renderer for a surface of the given size.
func New(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d height=%d", width, height)
	}
	r := &Renderer{}
	r.Resize(width, height)
	return r, nil
}

// Resize reallocates the framebuffer when the surface size changes.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width = width
	r.height = height
	r.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	r.raster = vector.NewRasterizer(width, height)
}

// Size returns the framebuffer dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render draws sample according to st and returns the framebuffer.
// The returned image is reused by the next call.
func (r *Renderer) Render(sample loudness.Sample, st params.State) *image.RGBA {
	switch st.Mode {
	case params.ModePlain:
		r.fill(gray(sample.Normalized))
	case params.ModeCircleSolid:
		r.fillBackground(st.Background, sample.Quantized)
		radius := float64(sample.Normalized) * st.SizeMultiplier
		r.fillDisk(math.Floor(radius), solidColor(st.Accent, sample.Quantized))
	case params.ModeCircleShaded:
		r.fillBackground(st.Background, sample.Quantized)
		r.drawShaded(sample.Normalized, st.SizeMultiplier, st.Accent)
	}
	return r.frame
}

// Center is the pixel the circles are centered on.
func (r *Renderer) Center() image.Point {
	return image.Pt(r.width/2, r.height/2)
}

func (r *Renderer) fill(c color.RGBA) {
	draw.Draw(r.frame, r.frame.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Renderer) fillBackground(bg params.Background, quantized int) {
	switch bg {
	case params.BackgroundGray:
		r.fill(gray(quantized))
	case params.BackgroundWhite:
		r.fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	default:
		r.fill(color.RGBA{A: 255})
	}
}

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

func (r *Renderer) fillDisk(radius float64, c color.RGBA) {
	if radius <= 0 {
		return
	}
	center := r.Center()
	cx, cy := float32(center.X), float32(center.Y)
	rad := float32(radius)
	k := float32(kappa) * rad

	z := r.raster
	z.Reset(r.width, r.height)
	z.DrawOp = draw.Over
	z.MoveTo(cx+rad, cy)
	z.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	z.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	z.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	z.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	z.ClosePath()
	z.Draw(r.frame, r.frame.Bounds(), image.NewUniform(c), image.Point{})
}

// drawShaded paints rings 0..level-1, ring g at radius g*multiplier with a stroke of twice the
// multiplier, later rings painted over earlier ones. Each pixel takes the color of the last ring
// covering it, which is the largest g whose band [g*m-w, g*m] contains the pixel distance.
func (r *Renderer) drawShaded(level int, multiplier float64, accent params.Color) {
	if level <= 0 || multiplier <= 0 {
		return
	}
	stroke := math.Max(1, 2*multiplier)
	outer := float64(level-1) * multiplier

	center := r.Center()
	bounds := image.Rect(
		center.X-int(math.Ceil(outer)), center.Y-int(math.Ceil(outer)),
		center.X+int(math.Ceil(outer))+1, center.Y+int(math.Ceil(outer))+1,
	).Intersect(r.frame.Bounds())
	if bounds.Empty() {
		return
	}

	colors := make([]color.RGBA, level)
	for g := range colors {
		colors[g] = ringColor(accent, level-g)
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > bounds.Dy() {
		numWorkers = bounds.Dy()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	rowJobs := make(chan int, numWorkers)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowJobs {
				dy := float64(y - center.Y)
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					d := math.Hypot(float64(x-center.X), dy)
					if d > outer {
						continue
					}
					g := int(math.Floor((d + stroke) / multiplier))
					if g > level-1 {
						g = level - 1
					}
					if float64(g)*multiplier < d {
						continue
					}
					r.frame.SetRGBA(x, y, colors[g])
				}
			}
		}()
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		rowJobs <- y
	}
	close(rowJobs)
	wg.Wait()
}

// solidColor floors every accent channel at the loudness band.
func solidColor(accent params.Color, quantized int) color.RGBA {
	var out [3]uint8
	for i := range out {
		ch := int(accent.Channel(i))
		if ch <= quantized {
			ch = quantized
		}
		out[i] = uint8(clampInt(ch, 0, 255))
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
}

// ringColor caps every accent channel at level.
func ringColor(accent params.Color, level int) color.RGBA {
	var out [3]uint8
	for i := range out {
		ch := int(accent.Channel(i))
		if ch > level {
			ch = level
		}
		out[i] = uint8(clampInt(ch, 0, 255))
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
}

func gray(level int) color.RGBA {
	v := uint8(clampInt(level, 0, 255))
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// StatusLine summarizes the current frame for the window title or terminal status bar.
func (r *Renderer) StatusLine(sample loudness.Sample, runningPeak int, st params.State) string {
	builder := &r.statusBuilder
	builder.Reset()
	builder.Grow(96)
	builder.WriteString("beatvis | ")
	builder.WriteString(st.Mode.String())
	if st.Mode != params.ModePlain {
		builder.WriteString(" bg=")
		builder.WriteString(st.Background.String())
		builder.WriteString(" color=")
		builder.WriteString(st.Palette.NameOf(st.Accent))
	}
	builder.WriteString(" | level ")
	builder.WriteString(strconv.Itoa(sample.Normalized))
	builder.WriteString(" band ")
	builder.WriteString(strconv.Itoa(sample.Quantized))
	builder.WriteString(" peak ")
	builder.WriteString(strconv.Itoa(runningPeak))
	return builder.String()
}

// ANSIColor maps c to the nearest xterm-256 palette index.
func ANSIColor(c color.RGBA) int {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	// Grayscale ramp for neutral colors
	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		level := int(clampFloat(math.Round(r*23), 0, 23))
		return 232 + level
	}

	ri := int(clampFloat(r*5+0.5, 0, 5))
	gi := int(clampFloat(g*5+0.5, 0, 5))
	bi := int(clampFloat(b*5+0.5, 0, 5))

	return 16 + 36*ri + 6*gi + bi
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
