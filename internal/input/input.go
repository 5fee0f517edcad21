// Package input turns raw per-tick key polling into action snapshots.
//
// The Manager keeps a small four-state machine per bound key so callers can
// ask both "is this held" and "did this go down this tick" without tracking
// previous frames themselves.
package input

import (
	"fmt"
	"strings"

	"github.com/kamstrup/intmap"

	"chosenoffset.com/spritewalk/internal/render"
)

// Action is a logical input the game reacts to.
type Action int

const (
	MoveUp Action = iota
	MoveDown
	MoveLeft
	MoveRight
	Quit
	ToggleHUD
	actionCount
)

var actionNames = [actionCount]string{
	MoveUp:    "move_up",
	MoveDown:  "move_down",
	MoveLeft:  "move_left",
	MoveRight: "move_right",
	Quit:      "quit",
	ToggleHUD: "toggle_hud",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction looks up an action by its config name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// KeyState is the per-key state after a sample.
type KeyState uint8

const (
	Idle KeyState = iota
	Pressed
	Held
	Released
)

func (s KeyState) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Held:
		return "held"
	case Released:
		return "released"
	default:
		return "idle"
	}
}

// Down reports whether the key is currently down.
func (s KeyState) Down() bool {
	return s == Pressed || s == Held
}

// next advances a key state given whether the key is down this tick.
func (s KeyState) next(down bool) KeyState {
	switch {
	case s.Down() && down:
		return Held
	case down:
		return Pressed
	case s.Down():
		return Released
	default:
		return Idle
	}
}

// KeySource is polled once per bound key on every sample.
type KeySource interface {
	IsKeyPressed(key render.Key) bool
}

// DefaultBindings returns the stock key layout: WASD and arrows to move,
// Escape to quit and E for the HUD.
func DefaultBindings() map[Action][]render.Key {
	return map[Action][]render.Key{
		MoveUp:    {render.KeyW, render.KeyUp},
		MoveDown:  {render.KeyS, render.KeyDown},
		MoveLeft:  {render.KeyA, render.KeyLeft},
		MoveRight: {render.KeyD, render.KeyRight},
		Quit:      {render.KeyEscape},
		ToggleHUD: {render.KeyE},
	}
}

// Manager maps keys to actions and tracks key state across samples.
type Manager struct {
	keys     *intmap.Map[render.Key, KeyState]
	bindings [actionCount][]render.Key
}

// NewManager creates a manager with DefaultBindings.
func NewManager() *Manager {
	m := &Manager{keys: intmap.New[render.Key, KeyState](16)}
	for a, keys := range DefaultBindings() {
		m.Remap(a, keys...)
	}
	return m
}

// Remap replaces the keys bound to an action. Passing no keys unbinds it.
// Keys left without any action lose their history, so binding one again
// starts it from Idle.
func (m *Manager) Remap(a Action, keys ...render.Key) {
	if a < 0 || a >= actionCount {
		return
	}
	old := m.bindings[a]
	m.bindings[a] = append([]render.Key(nil), keys...)
	for _, k := range old {
		if !m.bound(k) {
			m.keys.Del(k)
		}
	}
}

func (m *Manager) bound(k render.Key) bool {
	for _, keys := range m.bindings {
		for _, b := range keys {
			if b == k {
				return true
			}
		}
	}
	return false
}

// Bindings returns a copy of the keys bound to an action.
func (m *Manager) Bindings(a Action) []render.Key {
	if a < 0 || a >= actionCount {
		return nil
	}
	return append([]render.Key(nil), m.bindings[a]...)
}

// Sample polls every bound key once and returns the resulting snapshot.
// It never blocks; a tick with no keys down yields an empty State.
func (m *Manager) Sample(src KeySource) State {
	var polled [32]render.Key
	seen := polled[:0]

	var st State
	for a := Action(0); a < actionCount; a++ {
		for _, k := range m.bindings[a] {
			s, ok := m.lookupPolled(seen, k)
			if !ok {
				prev, _ := m.keys.Get(k)
				s = prev.next(src.IsKeyPressed(k))
				m.keys.Put(k, s)
				seen = append(seen, k)
			}
			if s.Down() {
				st.active |= 1 << a
			}
			if s == Pressed {
				st.pressed |= 1 << a
			}
		}
	}
	return st
}

// lookupPolled returns the state of a key already advanced this sample.
// Keys shared by several actions must only advance once.
func (m *Manager) lookupPolled(seen []render.Key, k render.Key) (KeyState, bool) {
	for _, s := range seen {
		if s == k {
			v, _ := m.keys.Get(k)
			return v, true
		}
	}
	return Idle, false
}

// State is the set of actions observed in one sample. It is a value and is
// not updated by later samples.
type State struct {
	active  uint32
	pressed uint32
}

// Active reports whether any key bound to a is down.
func (s State) Active(a Action) bool {
	return s.active&(1<<a) != 0
}

// JustPressed reports whether a key bound to a went down on this sample.
func (s State) JustPressed(a Action) bool {
	return s.pressed&(1<<a) != 0
}

// Quit reports whether the quit action is down.
func (s State) Quit() bool {
	return s.Active(Quit)
}

// Movement returns the requested direction on each axis in {-1, 0, 1}.
// Opposing keys cancel. Y grows downward, matching screen space.
func (s State) Movement() (dx, dy int) {
	if s.Active(MoveLeft) {
		dx--
	}
	if s.Active(MoveRight) {
		dx++
	}
	if s.Active(MoveUp) {
		dy--
	}
	if s.Active(MoveDown) {
		dy++
	}
	return dx, dy
}
