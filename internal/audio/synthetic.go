package audio

import (
	"math"
	"math/rand"
	"time"
)

// Synthetic generates beat-like stereo frames for running without a capture device.
type Synthetic struct {
	rng        *rand.Rand
	channels   int
	chunkSize  int
	sampleRate float64
	pace       time.Duration
	last       time.Time

	phaseTone  float64
	phaseBeat  float64
	phaseSwell float64
}

// NewSynthetic returns a generator producing frames shaped like cfg. When pace is true each
// NextFrame call waits out the chunk duration, as a real capture read would.
func NewSynthetic(cfg Config, pace bool) *Synthetic {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = defaultChannels
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	s := &Synthetic{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		channels:   cfg.Channels,
		chunkSize:  cfg.ChunkSize,
		sampleRate: cfg.SampleRate,
	}
	if pace {
		s.pace = time.Duration(float64(cfg.ChunkSize) / cfg.SampleRate * float64(time.Second))
	}
	return s
}

// NextFrame returns the next generated chunk. It never fails.
func (s *Synthetic) NextFrame() (Frame, error) {
	if s.pace > 0 {
		if !s.last.IsZero() {
			if wait := s.pace - time.Since(s.last); wait > 0 {
				time.Sleep(wait)
			}
		}
		s.last = time.Now()
	}

	frame := make(Frame, s.chunkSize*s.channels)
	dt := 1.0 / s.sampleRate
	for i := 0; i < s.chunkSize; i++ {
		s.phaseTone += 2 * math.Pi * 110 * dt
		s.phaseBeat += 2 * math.Pi * 2 * dt
		s.phaseSwell += 2 * math.Pi * 0.1 * dt

		// kick every half second, decaying, riding on a slow swell
		beat := math.Pow(math.Max(0, math.Sin(s.phaseBeat)), 8)
		swell := 0.35 + 0.3*math.Sin(s.phaseSwell)
		amp := clamp01(swell*0.4 + beat*0.6)

		v := math.Sin(s.phaseTone)*amp + (s.rng.Float64()*2-1)*0.02
		sample := int16(clampFloat(v, -1, 1) * math.MaxInt16)
		for ch := 0; ch < s.channels; ch++ {
			frame[i*s.channels+ch] = sample
		}
	}
	s.phaseTone = math.Mod(s.phaseTone, 2*math.Pi)
	s.phaseBeat = math.Mod(s.phaseBeat, 2*math.Pi)
	s.phaseSwell = math.Mod(s.phaseSwell, 2*math.Pi)
	return frame, nil
}

// Close is a no-op so Synthetic can stand in for Capture.
func (s *Synthetic) Close() error { return nil }

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
