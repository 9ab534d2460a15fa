// Package input maps raw UI events to visualiser actions and applies them to the display state.
package input

// Key is a backend-neutral key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyVolumeUp
	KeyVolumeDown
	KeyQ
	KeyE
	KeyA
	KeyS
	KeyD
)

// EventKind distinguishes window-level events from key presses.
type EventKind int

const (
	EventKey EventKind = iota
	EventQuit
)

// Event is one pending UI event as reported by a display backend.
type Event struct {
	Kind EventKind
	Key  Key
}

// KeyEvent is shorthand for a key press event.
func KeyEvent(k Key) Event { return Event{Kind: EventKey, Key: k} }

// QuitEvent is the event sent when the window is closed.
func QuitEvent() Event { return Event{Kind: EventQuit} }

// Action is what the main loop does in response to an event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRecalibrate
	ActionPreviousTrack
	ActionNextTrack
	ActionRandomizeColor
	ActionToggleShade
	ActionCycleBackground
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionQuit:            "quit",
	ActionRecalibrate:     "recalibrate",
	ActionPreviousTrack:   "previous-track",
	ActionNextTrack:       "next-track",
	ActionRandomizeColor:  "randomize-color",
	ActionToggleShade:     "toggle-shade",
	ActionCycleBackground: "cycle-background",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionFor maps a single event to its action.
func ActionFor(ev Event) Action {
	if ev.Kind == EventQuit {
		return ActionQuit
	}
	switch ev.Key {
	case KeyEscape:
		return ActionQuit
	case KeyVolumeUp, KeyVolumeDown:
		return ActionRecalibrate
	case KeyQ:
		return ActionPreviousTrack
	case KeyE:
		return ActionNextTrack
	case KeyD:
		return ActionRandomizeColor
	case KeyS:
		return ActionToggleShade
	case KeyA:
		return ActionCycleBackground
	default:
		return ActionNone
	}
}

// Actions maps a batch of events, dropping the ones without an action.
func Actions(events []Event) []Action {
	actions := make([]Action, 0, len(events))
	for _, ev := range events {
		if a := ActionFor(ev); a != ActionNone {
			actions = append(actions, a)
		}
	}
	return actions
}
