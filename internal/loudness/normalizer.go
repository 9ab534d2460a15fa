// Package loudness turns raw audio frames into an adaptively scaled 0-255 loudness value.
package loudness

import "github.com/guidoenr/beatvis/internal/audio"

const (
	// Baseline is the floor of the running peak. It keeps quiet frames after startup or a reset
	// from being amplified to full scale.
	Baseline = 255

	// MaxLevel is the top of the normalized range.
	MaxLevel = 255

	// Step is the width of one quantization band.
	Step = 32
)

// Sample is the loudness derived from a single frame.
type Sample struct {
	Raw        int
	Normalized int
	Quantized  int
}

// Normalizer rescales frame peaks against the loudest peak seen since the last reset.
type Normalizer struct {
	runningPeak int
}

// New returns a Normalizer with its running peak at Baseline.
func New() *Normalizer {
	return &Normalizer{runningPeak: Baseline}
}

// Observe updates the running peak with frame and returns the frame's loudness.
func (n *Normalizer) Observe(frame audio.Frame) Sample {
	if n.runningPeak < Baseline {
		n.runningPeak = Baseline
	}

	raw := frame.Peak()
	if raw > n.runningPeak {
		n.runningPeak = raw
	}

	normalized := clampInt(raw*MaxLevel/n.runningPeak, 0, MaxLevel)
	return Sample{
		Raw:        raw,
		Normalized: normalized,
		Quantized:  Quantize(normalized),
	}
}

// Reset drops the running peak back to Baseline.
func (n *Normalizer) Reset() {
	n.runningPeak = Baseline
}

// Peak returns the current running peak.
func (n *Normalizer) Peak() int {
	return n.runningPeak
}

// Quantize floors level to a multiple of Step.
func Quantize(level int) int {
	if level <= 0 {
		return 0
	}
	return level / Step * Step
}

func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
