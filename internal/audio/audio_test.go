package audio

import (
	"math"
	"testing"

	"github.com/gordonklaus/portaudio"
)

func TestFramePeakUsesAbsoluteValue(t *testing.T) {
	cases := []struct {
		name  string
		frame Frame
		want  int
	}{
		{"empty", nil, 0},
		{"silence", Frame{0, 0, 0, 0}, 0},
		{"positive", Frame{3, 120, -7, 40}, 120},
		{"negative dominates", Frame{100, -900, 20, 300}, 900},
		{"min int16", Frame{math.MinInt16, math.MaxInt16}, 32768},
	}
	for _, tc := range cases {
		if got := tc.frame.Peak(); got != tc.want {
			t.Fatalf("%s: Peak()=%d want=%d", tc.name, got, tc.want)
		}
	}
}

func TestFrameFrames(t *testing.T) {
	f := make(Frame, 2048)
	if got := f.Frames(2); got != 1024 {
		t.Fatalf("Frames(2)=%d want=1024", got)
	}
	if got := f.Frames(0); got != 2048 {
		t.Fatalf("Frames(0)=%d want=2048", got)
	}
}

func TestSyntheticFrameShape(t *testing.T) {
	s := NewSynthetic(Config{ChunkSize: 256, Channels: 2, SampleRate: 44100}, false)
	for i := 0; i < 20; i++ {
		frame, err := s.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		if len(frame) != 512 {
			t.Fatalf("len=%d want=512", len(frame))
		}
		for j := 0; j < len(frame); j += 2 {
			if frame[j] != frame[j+1] {
				t.Fatalf("channels differ at frame %d: %d vs %d", j/2, frame[j], frame[j+1])
			}
		}
	}
}

func TestSyntheticDefaults(t *testing.T) {
	s := NewSynthetic(Config{}, false)
	frame, _ := s.NextFrame()
	if len(frame) != defaultChunkSize*defaultChannels {
		t.Fatalf("len=%d want=%d", len(frame), defaultChunkSize*defaultChannels)
	}
}

func TestRankDevicesPrefersLoopback(t *testing.T) {
	devices := []*portaudio.DeviceInfo{
		{Index: 0, Name: "Microphone (USB)", MaxInputChannels: 2},
		{Index: 1, Name: "Speakers", MaxInputChannels: 0},
		{Index: 2, Name: "Stereo Mix (Realtek Audio)", MaxInputChannels: 2},
	}
	got := rankDevices(devices, 0)
	if got == nil || got.Index != 2 {
		t.Fatalf("expected Stereo Mix device, got %+v", got)
	}
}

func TestRankDevicesFallsBackToDefault(t *testing.T) {
	devices := []*portaudio.DeviceInfo{
		{Index: 0, Name: "Line In", MaxInputChannels: 2},
		{Index: 1, Name: "Built-in Mic", MaxInputChannels: 2},
	}
	got := rankDevices(devices, 1)
	if got == nil || got.Index != 1 {
		t.Fatalf("expected default input, got %+v", got)
	}
	if rankDevices([]*portaudio.DeviceInfo{{Name: "out", MaxInputChannels: 0}}, -1) != nil {
		t.Fatalf("expected nil when no device has inputs")
	}
}

func TestErrorsIsInvalidStreamState(t *testing.T) {
	if errorsIsInvalidStreamState(nil) {
		t.Fatalf("nil error is not an invalid stream state")
	}
}
