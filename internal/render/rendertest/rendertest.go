// Package rendertest provides in-memory render implementations that record
// draw calls, for testing game logic without a window.
package rendertest

import (
	"image"
	"image/color"

	"chosenoffset.com/spritewalk/internal/render"
)

// Op is one recorded drawing operation.
type Op struct {
	Kind string // "fill", "image", "rect", "text"
	// Src is the source rectangle for "image" ops.
	Src image.Rectangle
	// Tx, Ty, Sx, Sy are the accumulated translation and scale for "image" ops.
	Tx, Ty, Sx, Sy float64
	Text           string
	Color          color.Color
}

// Log is shared by an image and all of its sub-images.
type Log struct {
	Ops []Op
}

// Count returns how many ops of the given kind were recorded.
func (l *Log) Count(kind string) int {
	n := 0
	for _, op := range l.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent op of the given kind.
func (l *Log) Last(kind string) (Op, bool) {
	for i := len(l.Ops) - 1; i >= 0; i-- {
		if l.Ops[i].Kind == kind {
			return l.Ops[i], true
		}
	}
	return Op{}, false
}

// Image is a render.Image that records operations drawn onto it.
type Image struct {
	bounds   image.Rectangle
	Log      *Log
	Disposed bool
}

// NewImage creates a recording image of the given size.
func NewImage(width, height int) *Image {
	return &Image{bounds: image.Rect(0, 0, width, height), Log: &Log{}}
}

func (i *Image) Bounds() image.Rectangle { return i.bounds }

func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{bounds: r.Intersect(i.bounds), Log: i.Log}
}

func (i *Image) Fill(clr color.Color) {
	i.Log.Ops = append(i.Log.Ops, Op{Kind: "fill", Color: clr})
}

func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	op := Op{Kind: "image", Src: src.Bounds(), Sx: 1, Sy: 1}
	if opts != nil {
		if g, ok := opts.GeoM.(*GeoM); ok {
			op.Tx, op.Ty, op.Sx, op.Sy = g.Tx, g.Ty, g.Sx, g.Sy
		}
	}
	i.Log.Ops = append(i.Log.Ops, op)
}

func (i *Image) Dispose() { i.Disposed = true }

// GeoM tracks scale and translation.
type GeoM struct {
	Tx, Ty, Sx, Sy float64
}

func NewGeoM() *GeoM { return &GeoM{Sx: 1, Sy: 1} }

func (g *GeoM) Translate(tx, ty float64) { g.Tx += tx; g.Ty += ty }

func (g *GeoM) Scale(sx, sy float64) {
	g.Sx *= sx
	g.Sy *= sy
	g.Tx *= sx
	g.Ty *= sy
}

// Renderer records shapes and text onto recording images.
type Renderer struct{}

func (Renderer) NewGeoM() render.GeoM { return NewGeoM() }

func (Renderer) FillRect(dst render.Image, x, y, w, h float32, clr color.Color) {
	img := dst.(*Image)
	img.Log.Ops = append(img.Log.Ops, Op{Kind: "rect", Tx: float64(x), Ty: float64(y), Sx: float64(w), Sy: float64(h), Color: clr})
}

func (Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	img := dst.(*Image)
	img.Log.Ops = append(img.Log.Ops, Op{Kind: "text", Text: text, Tx: float64(x), Ty: float64(y), Color: clr})
}

func (Renderer) MeasureText(text string, scale float64) (int, int) {
	return int(float64(len(text)*6) * scale), int(13 * scale)
}

// Loader hands out recording images and keeps what was uploaded.
type Loader struct {
	Uploaded []image.Image
}

func (l *Loader) NewImageFromImage(src image.Image) render.Image {
	l.Uploaded = append(l.Uploaded, src)
	b := src.Bounds()
	return &Image{bounds: b, Log: &Log{}}
}

// Keys is a render.InputManager with a settable set of held keys.
type Keys map[render.Key]bool

func (k Keys) IsKeyPressed(key render.Key) bool { return k[key] }

// Hold replaces the held keys.
func (k Keys) Hold(keys ...render.Key) {
	for key := range k {
		delete(k, key)
	}
	for _, key := range keys {
		k[key] = true
	}
}

// Stats is a render.Stats with a fixed rate.
type Stats struct {
	TPS float64
}

func (s Stats) ActualTPS() float64 { return s.TPS }
