package input

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/guidoenr/beatvis/internal/params"
)

type fakePeak struct{ resets int }

func (f *fakePeak) Reset() { f.resets++ }

type fakeTransport struct {
	prev, next int
	err        error
}

func (f *fakeTransport) Previous() error { f.prev++; return f.err }
func (f *fakeTransport) Next() error     { f.next++; return f.err }

func newState() *params.State {
	palette := params.DefaultPalette()
	return &params.State{
		Mode:           params.ModeCircleShaded,
		Background:     params.BackgroundBlack,
		Accent:         palette[1].Color,
		Palette:        palette,
		SizeMultiplier: 2,
	}
}

func TestActionFor(t *testing.T) {
	cases := []struct {
		ev   Event
		want Action
	}{
		{QuitEvent(), ActionQuit},
		{KeyEvent(KeyEscape), ActionQuit},
		{KeyEvent(KeyVolumeUp), ActionRecalibrate},
		{KeyEvent(KeyVolumeDown), ActionRecalibrate},
		{KeyEvent(KeyQ), ActionPreviousTrack},
		{KeyEvent(KeyE), ActionNextTrack},
		{KeyEvent(KeyD), ActionRandomizeColor},
		{KeyEvent(KeyS), ActionToggleShade},
		{KeyEvent(KeyA), ActionCycleBackground},
		{KeyEvent(KeyUnknown), ActionNone},
	}
	for _, tc := range cases {
		if got := ActionFor(tc.ev); got != tc.want {
			t.Fatalf("ActionFor(%+v)=%s want=%s", tc.ev, got, tc.want)
		}
	}
}

func TestActionsDropsUnmapped(t *testing.T) {
	got := Actions([]Event{KeyEvent(KeyUnknown), KeyEvent(KeyS), KeyEvent(KeyUnknown), QuitEvent()})
	if len(got) != 2 || got[0] != ActionToggleShade || got[1] != ActionQuit {
		t.Fatalf("Actions=%v", got)
	}
}

func TestApplyMutatesState(t *testing.T) {
	st := newState()
	peak := &fakePeak{}
	tr := &fakeTransport{}
	c := NewController(st, peak, tr, nil)
	c.SetRand(rand.New(rand.NewSource(5)))

	prevAccent := st.Accent
	quit := c.Apply([]Action{
		ActionToggleShade,
		ActionCycleBackground,
		ActionRecalibrate,
		ActionPreviousTrack,
		ActionNextTrack,
		ActionNextTrack,
		ActionRandomizeColor,
	})
	if quit {
		t.Fatalf("unexpected quit")
	}
	if st.Mode != params.ModeCircleSolid {
		t.Fatalf("mode=%s want solid", st.Mode)
	}
	if st.Background != params.BackgroundGray {
		t.Fatalf("background=%s want gray", st.Background)
	}
	if peak.resets != 1 {
		t.Fatalf("resets=%d want=1", peak.resets)
	}
	if tr.prev != 1 || tr.next != 2 {
		t.Fatalf("transport prev=%d next=%d", tr.prev, tr.next)
	}
	if st.Accent == prevAccent {
		t.Fatalf("accent unchanged")
	}
}

func TestApplyStopsAtQuit(t *testing.T) {
	st := newState()
	c := NewController(st, nil, nil, nil)
	if !c.Apply([]Action{ActionCycleBackground, ActionQuit, ActionCycleBackground}) {
		t.Fatalf("expected quit")
	}
	if st.Background != params.BackgroundGray {
		t.Fatalf("background=%s, actions after quit must not apply", st.Background)
	}
}

func TestTransportErrorsAreNotFatal(t *testing.T) {
	tr := &fakeTransport{err: errors.New("no player")}
	c := NewController(newState(), nil, tr, nil)
	if c.Apply([]Action{ActionNextTrack, ActionPreviousTrack}) {
		t.Fatalf("transport error caused quit")
	}
	if tr.next != 1 || tr.prev != 1 {
		t.Fatalf("transport prev=%d next=%d", tr.prev, tr.next)
	}
}

func TestRandomizeWithSingleColorPalette(t *testing.T) {
	only := params.RGB(0, 255, 0)
	st := &params.State{Mode: params.ModeCircleSolid, Accent: only, Palette: params.Palette{{Name: "green", Color: only}}}
	c := NewController(st, nil, nil, nil)
	c.Apply([]Action{ActionRandomizeColor, ActionRandomizeColor})
	if st.Accent != only {
		t.Fatalf("accent=%+v want=%+v", st.Accent, only)
	}
}
