package input

import (
	"log"
	"math/rand"
	"time"

	"github.com/guidoenr/beatvis/internal/params"
)

// Recalibrator is the part of the loudness normalizer the controller can reset.
type Recalibrator interface {
	Reset()
}

// Transport receives media-transport commands.
type Transport interface {
	Previous() error
	Next() error
}

// Controller applies actions to the display state, the normalizer and the transport.
type Controller struct {
	state     *params.State
	peak      Recalibrator
	transport Transport
	rng       *rand.Rand
	log       *log.Logger
}

// NewController wires a controller. transport and logger may be nil.
func NewController(state *params.State, peak Recalibrator, transport Transport, logger *log.Logger) *Controller {
	return &Controller{
		state:     state,
		peak:      peak,
		transport: transport,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       logger,
	}
}

// SetRand replaces the color randomizer's source.
func (c *Controller) SetRand(rng *rand.Rand) {
	c.rng = rng
}

// Apply performs actions in order and reports whether one of them was a quit.
// Actions after a quit are not applied.
func (c *Controller) Apply(actions []Action) (quit bool) {
	for _, a := range actions {
		switch a {
		case ActionQuit:
			return true
		case ActionRecalibrate:
			if c.peak != nil {
				c.peak.Reset()
			}
		case ActionPreviousTrack:
			c.sendTransport(a, c.transportPrevious)
		case ActionNextTrack:
			c.sendTransport(a, c.transportNext)
		case ActionRandomizeColor:
			c.state.RandomizeAccent(c.rng)
		case ActionToggleShade:
			c.state.ToggleShade()
		case ActionCycleBackground:
			c.state.CycleBackground()
		default:
			continue
		}
		c.logf("%s -> mode=%s bg=%s color=%s", a, c.state.Mode, c.state.Background, c.state.Palette.NameOf(c.state.Accent))
	}
	return false
}

func (c *Controller) transportPrevious() error { return c.transport.Previous() }
func (c *Controller) transportNext() error     { return c.transport.Next() }

func (c *Controller) sendTransport(a Action, send func() error) {
	if c.transport == nil {
		return
	}
	if err := send(); err != nil {
		c.logf("%s failed: %v", a, err)
	}
}

func (c *Controller) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
