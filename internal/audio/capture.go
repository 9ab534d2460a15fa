package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Capture wraps a blocking PortAudio input stream that fills a fixed int16 chunk per read.
type Capture struct {
	stream     *portaudio.Stream
	sampleRate float64
	channels   int
	chunkSize  int
	device     *portaudio.DeviceInfo

	buffer []int16
}

// Config controls how a Capture instance is created.
type Config struct {
	DeviceName string
	ChunkSize  int
	Channels   int
	SampleRate float64
}

const (
	defaultChunkSize  = 1024
	defaultChannels   = 2
	defaultSampleRate = 44100
)

// NewCapture opens and starts a blocking PortAudio stream using the provided configuration.
func NewCapture(cfg Config) (*Capture, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = defaultChannels
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}

	device, err := findDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}
	if device.MaxInputChannels < cfg.Channels {
		return nil, fmt.Errorf("device %q has %d input channels, need %d", device.Name, device.MaxInputChannels, cfg.Channels)
	}

	capture := &Capture{
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		chunkSize:  cfg.ChunkSize,
		device:     device,
		buffer:     make([]int16, cfg.ChunkSize*cfg.Channels),
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		Output:          portaudio.StreamDeviceParameters{},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.ChunkSize,
	}, capture.buffer)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	capture.stream = stream

	if err := capture.stream.Start(); err != nil {
		_ = capture.stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}

	return capture, nil
}

// NextFrame blocks until a full chunk is available and returns a copy of it.
// An input overflow only means samples were dropped before this read, so the frame is still delivered.
func (c *Capture) NextFrame() (Frame, error) {
	if c.stream == nil {
		return nil, errors.New("capture stream closed")
	}
	if err := c.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	frame := make(Frame, len(c.buffer))
	copy(frame, c.buffer)
	return frame, nil
}

// Close stops and closes the underlying PortAudio stream.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	stream := c.stream
	c.stream = nil
	if err := stream.Stop(); err != nil && !errorsIsInvalidStreamState(err) {
		_ = stream.Close()
		return err
	}
	return stream.Close()
}

// SampleRate returns the stream sample rate.
func (c *Capture) SampleRate() float64 {
	return c.sampleRate
}

// Channels returns the number of interleaved channels per frame.
func (c *Capture) Channels() int {
	return c.channels
}

// Device returns the PortAudio device associated with the capture stream.
func (c *Capture) Device() *portaudio.DeviceInfo {
	return c.device
}

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name != "" {
		return findDeviceByName(name)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	// Loopback devices carry what is playing, which is what the display follows.
	if candidate := pickBestDevice(devices); candidate != nil {
		return candidate, nil
	}

	if dev, err := portaudio.DefaultInputDevice(); err == nil && dev != nil && dev.MaxInputChannels > 0 {
		return dev, nil
	}

	return nil, fmt.Errorf("no suitable audio input device found")
}

func findDeviceByName(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	name = strings.ToLower(name)
	for _, device := range devices {
		if device.MaxInputChannels == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(device.Name), name) {
			return device, nil
		}
	}

	return nil, fmt.Errorf("audio device %q not found", name)
}

var loopbackKeywords = []string{"stereo", "monitor", "loopback", "what u hear"}

func isLoopbackName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range loopbackKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func pickBestDevice(devices []*portaudio.DeviceInfo) *portaudio.DeviceInfo {
	defaultInputIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultInputIndex = def.Index
	}
	return rankDevices(devices, defaultInputIndex)
}

// rankDevices returns the best scoring input device, or nil when no device has inputs.
func rankDevices(devices []*portaudio.DeviceInfo, defaultInputIndex int) *portaudio.DeviceInfo {
	type scored struct {
		dev   *portaudio.DeviceInfo
		score int
	}

	var results []scored
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}

		score := d.MaxInputChannels
		if d.Index == defaultInputIndex {
			score += 10
		}

		if isLoopbackName(d.Name) {
			score += 50
		}

		results = append(results, scored{dev: d, score: score})
	}

	if len(results) == 0 {
		return nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return strings.ToLower(results[i].dev.Name) < strings.ToLower(results[j].dev.Name)
		}
		return results[i].score > results[j].score
	})

	return results[0].dev
}

// errorsIsInvalidStreamState checks if the provided error stems from stopping an already stopped stream.
func errorsIsInvalidStreamState(err error) bool {
	if err == nil {
		return false
	}
	const invalidStateMsg = "PaErrorCode -9986"
	return strings.Contains(err.Error(), invalidStateMsg)
}

// AutoDetectDevice returns the input device NewCapture would pick without a device name.
func AutoDetectDevice() (*portaudio.DeviceInfo, error) {
	return findDevice("")
}
