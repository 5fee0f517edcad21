// Package anim drives sprite-sheet animation for a walking character.
//
// An Animator is a small finite-state machine: one Sequence per movement
// State, a frame index into the active sequence and a timer. It has no
// notion of wall-clock time; callers feed it the tick duration.
package anim

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the movement state that selects the active sequence.
type State int

const (
	Idle State = iota
	MovingUp
	MovingDown
	MovingLeft
	MovingRight
	stateCount
)

var stateNames = [stateCount]string{
	Idle:        "idle",
	MovingUp:    "moving_up",
	MovingDown:  "moving_down",
	MovingLeft:  "moving_left",
	MovingRight: "moving_right",
}

func (s State) String() string {
	if s < 0 || s >= stateCount {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState looks up a state by its config name.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return State(s), nil
		}
	}
	return 0, fmt.Errorf("unknown animation state %q", name)
}

// States returns every state in declaration order.
func States() []State {
	out := make([]State, stateCount)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// StateFor maps a movement direction to a state. Horizontal motion wins
// over vertical; no motion is Idle.
func StateFor(dx, dy int) State {
	switch {
	case dx < 0:
		return MovingLeft
	case dx > 0:
		return MovingRight
	case dy < 0:
		return MovingUp
	case dy > 0:
		return MovingDown
	default:
		return Idle
	}
}

// Sequence is an ordered list of sprite-sheet frame numbers.
type Sequence struct {
	Name   string
	Frames []int
	// Repeat loops back to the first frame; otherwise the last frame holds.
	Repeat bool
}

// Library holds the sequence played in each state.
type Library map[State]Sequence

// RowLibrary lays the states out one per sheet row in declaration order
// (idle, up, down, left, right), each using framesPerRow looping frames.
func RowLibrary(framesPerRow int) Library {
	lib := make(Library, stateCount)
	for _, s := range States() {
		frames := make([]int, framesPerRow)
		for i := range frames {
			frames[i] = int(s)*framesPerRow + i
		}
		lib[s] = Sequence{Name: s.String(), Frames: frames, Repeat: true}
	}
	return lib
}

var (
	ErrMissingSequence = errors.New("anim: state has no sequence")
	ErrEmptySequence   = errors.New("anim: sequence has no frames")
	ErrFrameOutOfRange = errors.New("anim: frame outside sprite sheet")
)

// Validate checks that every state has a non-empty sequence whose frames
// lie in [0, frameCount).
func (l Library) Validate(frameCount int) error {
	for _, s := range States() {
		seq, ok := l[s]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingSequence, s)
		}
		if len(seq.Frames) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptySequence, s)
		}
		for _, f := range seq.Frames {
			if f < 0 || f >= frameCount {
				return fmt.Errorf("%w: %s uses frame %d of %d", ErrFrameOutOfRange, s, f, frameCount)
			}
		}
	}
	return nil
}

// Animator advances the frame index of the active state over time.
type Animator struct {
	seqs          [stateCount]Sequence
	frameDuration time.Duration

	state State
	index int
	timer time.Duration
}

// NewAnimator starts in Idle at frame zero. Sequences are copied.
func NewAnimator(lib Library, frameDuration time.Duration) (*Animator, error) {
	if frameDuration <= 0 {
		return nil, fmt.Errorf("anim: frame duration must be positive, got %v", frameDuration)
	}
	a := &Animator{frameDuration: frameDuration}
	for _, s := range States() {
		seq, ok := lib[s]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSequence, s)
		}
		if len(seq.Frames) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptySequence, s)
		}
		seq.Frames = append([]int(nil), seq.Frames...)
		a.seqs[s] = seq
	}
	return a, nil
}

// Update applies one tick. A state change switches sequence and resets the
// frame index and timer; otherwise the timer accumulates dt and the index
// advances by one once it reaches the frame duration. It reports whether
// the state changed.
func (a *Animator) Update(next State, dt time.Duration) bool {
	if next < 0 || next >= stateCount {
		next = Idle
	}
	if next != a.state {
		a.state = next
		a.index = 0
		a.timer = 0
		return true
	}

	a.timer += dt
	if a.timer < a.frameDuration {
		return false
	}
	a.timer = 0

	n := len(a.seqs[a.state].Frames)
	switch {
	case a.index+1 < n:
		a.index++
	case a.seqs[a.state].Repeat:
		a.index = 0
	}
	return false
}

// State returns the active state.
func (a *Animator) State() State { return a.state }

// FrameIndex returns the position within the active sequence.
func (a *Animator) FrameIndex() int { return a.index }

// FrameCount returns the length of the active sequence.
func (a *Animator) FrameCount() int { return len(a.seqs[a.state].Frames) }

// SheetFrame returns the sprite-sheet frame number to draw.
func (a *Animator) SheetFrame() int { return a.seqs[a.state].Frames[a.index] }

