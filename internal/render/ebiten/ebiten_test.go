package ebiten

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"chosenoffset.com/spritewalk/internal/render"
)

// stubGame returns err from every Update and records Layout calls.
type stubGame struct {
	err     error
	updates int
	w, h    int
}

func (g *stubGame) Update() error {
	g.updates++
	return g.err
}

func (g *stubGame) Draw(render.Image) {}

func (g *stubGame) Layout(w, h int) (int, int) {
	g.w, g.h = w, h
	return w / 2, h / 2
}

func TestAdapterTurnsQuitIntoTermination(t *testing.T) {
	a := &gameAdapter{game: &stubGame{err: render.ErrQuit}}
	assert.True(t, errors.Is(a.Update(), ebiten.Termination))

	// Wrapped quit signals count too.
	a = &gameAdapter{game: &stubGame{err: fmt.Errorf("input: %w", render.ErrQuit)}}
	assert.ErrorIs(t, a.Update(), ebiten.Termination)
}

func TestAdapterPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	g := &stubGame{err: boom}
	a := &gameAdapter{game: g}

	err := a.Update()
	assert.Same(t, boom, err)
	assert.False(t, errors.Is(err, ebiten.Termination))
	assert.Equal(t, 1, g.updates)

	g.err = nil
	assert.NoError(t, a.Update())
	assert.Equal(t, 2, g.updates)
}

func TestAdapterLayout(t *testing.T) {
	g := &stubGame{}
	a := &gameAdapter{game: g}

	w, h := a.Layout(800, 600)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	assert.Equal(t, 800, g.w)
	assert.Equal(t, 600, g.h)
}

func TestKeyToEbitenKey(t *testing.T) {
	for key, want := range map[render.Key]ebiten.Key{
		render.KeyW:      ebiten.KeyW,
		render.KeyA:      ebiten.KeyA,
		render.KeyS:      ebiten.KeyS,
		render.KeyD:      ebiten.KeyD,
		render.KeyE:      ebiten.KeyE,
		render.KeyUp:     ebiten.KeyArrowUp,
		render.KeyDown:   ebiten.KeyArrowDown,
		render.KeyLeft:   ebiten.KeyArrowLeft,
		render.KeyRight:  ebiten.KeyArrowRight,
		render.KeySpace:  ebiten.KeySpace,
		render.KeyEscape: ebiten.KeyEscape,
	} {
		got, ok := keyToEbitenKey(key)
		assert.True(t, ok, key.String())
		assert.Equal(t, want, got, key.String())
	}

	_, ok := keyToEbitenKey(render.Key(-1))
	assert.False(t, ok)
}
