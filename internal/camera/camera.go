package camera

import (
	"math"

	"chosenoffset.com/spritewalk/internal/geom"
)

// Camera tracks the viewport position for scrolling around the world.
type Camera struct {
	// Pos is the top-left corner of the viewport in world coords.
	Pos geom.Vec2

	viewport  geom.Vec2
	lerpSpeed float64
	zoom      float64

	bounded  bool
	boundMin geom.Vec2
	boundMax geom.Vec2
}

// New creates an unbounded camera at the origin with zoom 1.
func New(viewportWidth, viewportHeight float64) *Camera {
	return &Camera{
		viewport:  geom.Vec2{X: viewportWidth, Y: viewportHeight},
		lerpSpeed: 0.1,
		zoom:      1,
	}
}

// SetWorldBounds keeps the viewport inside [lo, hi].
func (c *Camera) SetWorldBounds(lo, hi geom.Vec2) {
	c.bounded = true
	c.boundMin = lo
	c.boundMax = hi
}

// SetZoom sets the zoom level, clamped to [0.1, 10].
func (c *Camera) SetZoom(zoom float64) {
	c.zoom = geom.Clamp(zoom, 0.1, 10)
}

// Zoom returns the zoom level.
func (c *Camera) Zoom() float64 { return c.zoom }

// SetLerpSpeed sets how quickly Follow catches up, clamped to [0, 1].
// Values of 0.99 and above snap instantly.
func (c *Camera) SetLerpSpeed(speed float64) {
	c.lerpSpeed = geom.Clamp(speed, 0, 1)
}

// LerpSpeed returns the follow speed.
func (c *Camera) LerpSpeed() float64 { return c.lerpSpeed }

// SetViewport updates the viewport size, e.g. after a window resize.
// The position is left alone until the next Follow.
func (c *Camera) SetViewport(width, height float64) {
	c.viewport = geom.Vec2{X: width, Y: height}
}

// Follow moves the camera toward centering target. dt is in seconds.
func (c *Camera) Follow(target geom.Vec2, dt float64) {
	half := c.viewport.Scale(0.5 / c.zoom)
	goal := target.Sub(half)

	factor := 1.0
	if c.lerpSpeed < 0.99 {
		// Frame-rate independent exponential smoothing tuned at 60 FPS.
		factor = 1 - math.Exp(-c.lerpSpeed*15*dt*60)
	}

	c.Pos = c.clamp(c.Pos.Lerp(goal, factor))
}

func (c *Camera) clamp(p geom.Vec2) geom.Vec2 {
	if !c.bounded {
		return p
	}
	return geom.Vec2{
		X: geom.Clamp(p.X, c.boundMin.X, c.boundMax.X-c.viewport.X/c.zoom),
		Y: geom.Clamp(p.Y, c.boundMin.Y, c.boundMax.Y-c.viewport.Y/c.zoom),
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p geom.Vec2) geom.Vec2 {
	return p.Sub(c.Pos).Scale(c.zoom)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(p geom.Vec2) geom.Vec2 {
	return p.Scale(1 / c.zoom).Add(c.Pos)
}
