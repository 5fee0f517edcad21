package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/spritewalk/internal/render"
)

// fakeKeys is a KeySource backed by a set of held keys.
type fakeKeys struct {
	down  map[render.Key]bool
	polls map[render.Key]int
}

func newFakeKeys(keys ...render.Key) *fakeKeys {
	f := &fakeKeys{down: map[render.Key]bool{}, polls: map[render.Key]int{}}
	f.set(keys...)
	return f
}

func (f *fakeKeys) set(keys ...render.Key) {
	f.down = map[render.Key]bool{}
	for _, k := range keys {
		f.down[k] = true
	}
}

func (f *fakeKeys) IsKeyPressed(k render.Key) bool {
	f.polls[k]++
	return f.down[k]
}

func TestKeyStateTransitions(t *testing.T) {
	tests := []struct {
		from KeyState
		down bool
		want KeyState
	}{
		{Idle, false, Idle},
		{Idle, true, Pressed},
		{Pressed, true, Held},
		{Held, true, Held},
		{Pressed, false, Released},
		{Held, false, Released},
		{Released, false, Idle},
		{Released, true, Pressed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.next(tt.down), "%v with down=%v", tt.from, tt.down)
	}
}

func TestSampleEmptyIsValid(t *testing.T) {
	m := NewManager()
	st := m.Sample(newFakeKeys())

	for a := Action(0); a < actionCount; a++ {
		assert.False(t, st.Active(a), a.String())
		assert.False(t, st.JustPressed(a), a.String())
	}
	assert.False(t, st.Quit())
	dx, dy := st.Movement()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestSampleArrowsAndWASD(t *testing.T) {
	for _, tc := range []struct {
		key    render.Key
		action Action
	}{
		{render.KeyW, MoveUp},
		{render.KeyUp, MoveUp},
		{render.KeyS, MoveDown},
		{render.KeyDown, MoveDown},
		{render.KeyA, MoveLeft},
		{render.KeyLeft, MoveLeft},
		{render.KeyD, MoveRight},
		{render.KeyRight, MoveRight},
		{render.KeyEscape, Quit},
		{render.KeyE, ToggleHUD},
	} {
		st := NewManager().Sample(newFakeKeys(tc.key))
		for a := Action(0); a < actionCount; a++ {
			assert.Equal(t, a == tc.action, st.Active(a), "%v activating %v", tc.key, a)
		}
	}
}

func TestJustPressedOnlyOnFirstSample(t *testing.T) {
	m := NewManager()
	keys := newFakeKeys(render.KeyE)

	first := m.Sample(keys)
	assert.True(t, first.JustPressed(ToggleHUD))

	second := m.Sample(keys)
	assert.True(t, second.Active(ToggleHUD))
	assert.False(t, second.JustPressed(ToggleHUD))

	keys.set()
	third := m.Sample(keys)
	assert.False(t, third.Active(ToggleHUD))
	assert.False(t, third.JustPressed(ToggleHUD))

	keys.set(render.KeyE)
	fourth := m.Sample(keys)
	assert.True(t, fourth.JustPressed(ToggleHUD))
}

func TestMovementOpposingKeysCancel(t *testing.T) {
	m := NewManager()

	st := m.Sample(newFakeKeys(render.KeyLeft, render.KeyD))
	dx, dy := st.Movement()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	st = m.Sample(newFakeKeys(render.KeyUp, render.KeyRight))
	dx, dy = st.Movement()
	assert.Equal(t, 1, dx)
	assert.Equal(t, -1, dy)
}

func TestSharedKeyPolledOnce(t *testing.T) {
	m := NewManager()
	m.Remap(Quit, render.KeyEscape, render.KeyE)

	keys := newFakeKeys(render.KeyE)
	st := m.Sample(keys)

	assert.Equal(t, 1, keys.polls[render.KeyE])
	assert.True(t, st.JustPressed(Quit))
	assert.True(t, st.JustPressed(ToggleHUD))
}

func TestRemap(t *testing.T) {
	m := NewManager()
	m.Remap(MoveUp, render.KeySpace)
	assert.Equal(t, []render.Key{render.KeySpace}, m.Bindings(MoveUp))

	st := m.Sample(newFakeKeys(render.KeyW))
	assert.False(t, st.Active(MoveUp))

	st = m.Sample(newFakeKeys(render.KeySpace))
	assert.True(t, st.Active(MoveUp))

	m.Remap(MoveUp)
	st = m.Sample(newFakeKeys(render.KeySpace))
	assert.False(t, st.Active(MoveUp))
}

func TestRebindStartsFromIdle(t *testing.T) {
	m := NewManager()
	keys := newFakeKeys(render.KeyE)
	require.True(t, m.Sample(keys).JustPressed(ToggleHUD))

	// Unbind while E is held, release it unseen, then bind it again.
	m.Remap(ToggleHUD)
	keys.set()
	m.Sample(keys)
	m.Remap(ToggleHUD, render.KeyE)

	keys.set(render.KeyE)
	assert.True(t, m.Sample(keys).JustPressed(ToggleHUD))
}

func TestRemapKeepsSharedKeyHistory(t *testing.T) {
	m := NewManager()
	m.Remap(Quit, render.KeyEscape, render.KeyE)
	keys := newFakeKeys(render.KeyE)
	m.Sample(keys)

	// E is still bound to ToggleHUD, so it stays held.
	m.Remap(Quit, render.KeyEscape)
	st := m.Sample(keys)
	assert.True(t, st.Active(ToggleHUD))
	assert.False(t, st.JustPressed(ToggleHUD))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Move_Left")
	require.NoError(t, err)
	assert.Equal(t, MoveLeft, a)
	assert.Equal(t, "move_left", a.String())

	_, err = ParseAction("jump")
	assert.Error(t, err)
}
