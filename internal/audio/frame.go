package audio

// Frame is one chunk of interleaved signed 16-bit samples (channels × frames per chunk).
type Frame []int16

// Peak returns the largest absolute sample value in the frame.
// The result is an int so that |-32768| is representable.
func (f Frame) Peak() int {
	peak := 0
	for _, s := range f {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Frames returns the number of sample frames for the given channel count.
func (f Frame) Frames(channels int) int {
	if channels <= 0 {
		return len(f)
	}
	return len(f) / channels
}
