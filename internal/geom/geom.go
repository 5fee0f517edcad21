package geom

// Vec2 represents a 2D point or direction in world space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Lerp moves v toward target by factor t (0 keeps v, 1 returns target).
func (v Vec2) Lerp(target Vec2, t float64) Vec2 {
	return Vec2{v.X + (target.X-v.X)*t, v.Y + (target.Y-v.Y)*t}
}

// Clamp limits x to [lo, hi]. When hi < lo, lo wins.
func Clamp(x, lo, hi float64) float64 {
	if x > hi {
		x = hi
	}
	if x < lo {
		x = lo
	}
	return x
}
