// Package tilemap holds the layered tile world the character walks on.
//
// A Map is a grid of Width x Height cells. Each Layer stores one tile ID
// per cell; IDs are frame numbers in the Tileset's sprite sheet and Empty
// marks a cell with nothing on that layer. Layers draw in the order they
// were added.
package tilemap

import (
	"errors"
	"fmt"
	"math"
	"time"

	"chosenoffset.com/spritewalk/internal/geom"
)

// Empty marks a cell with no tile.
const Empty = -1

var (
	ErrUnknownTile  = errors.New("tilemap: unknown tile")
	ErrLayerSize    = errors.New("tilemap: layer size does not match map")
	ErrUnknownLayer = errors.New("tilemap: unknown layer")
)

// Valid reports whether t is one of the known tile types.
func (t TileType) Valid() bool {
	switch t {
	case Ground, Water, Wall, Sand, Decoration:
		return true
	}
	return false
}

// Layer is one grid of tile IDs.
type Layer struct {
	Name    string
	Visible bool

	width, height int
	cells         []int
}

// NewLayer creates a visible layer with every cell Empty.
func NewLayer(name string, width, height int) *Layer {
	l := &Layer{Name: name, Visible: true, width: width, height: height, cells: make([]int, width*height)}
	l.Fill(Empty)
	return l
}

func (l *Layer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// Get returns the tile at (x, y). It reports false outside the layer and
// for Empty cells.
func (l *Layer) Get(x, y int) (int, bool) {
	if !l.inside(x, y) {
		return Empty, false
	}
	id := l.cells[y*l.width+x]
	return id, id != Empty
}

// Fill sets every cell to id.
func (l *Layer) Fill(id int) {
	for i := range l.cells {
		l.cells[i] = id
	}
}

// FillRect sets the cells of a w x h block at (x, y), clipped to the layer.
func (l *Layer) FillRect(x, y, w, h, id int) {
	for ty := max(y, 0); ty < min(y+h, l.height); ty++ {
		for tx := max(x, 0); tx < min(x+w, l.width); tx++ {
			l.cells[ty*l.width+tx] = id
		}
	}
}

// Map is a layered tile grid drawn with one tileset.
type Map struct {
	Width, Height int // in tiles
	Scale         float64
	Tileset       *Tileset

	layers []*Layer
}

// New creates an empty map. Tiles are the tileset's frame size times scale
// in world units.
func New(width, height int, scale float64, ts *Tileset) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tilemap: invalid size %dx%d", width, height)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("tilemap: scale must be positive, got %v", scale)
	}
	if ts == nil {
		return nil, fmt.Errorf("tilemap: tileset is nil")
	}
	return &Map{Width: width, Height: height, Scale: scale, Tileset: ts}, nil
}

// AddLayer appends a layer, replacing any layer with the same name in place.
// Every non-empty cell must name a tile in the tileset.
func (m *Map) AddLayer(l *Layer) error {
	if l.width != m.Width || l.height != m.Height {
		return fmt.Errorf("%w: %s is %dx%d, map is %dx%d", ErrLayerSize, l.Name, l.width, l.height, m.Width, m.Height)
	}
	for i, id := range l.cells {
		if id != Empty && !m.Tileset.Has(id) {
			return fmt.Errorf("%w: %d at %d,%d on %s", ErrUnknownTile, id, i%l.width, i/l.width, l.Name)
		}
	}
	for i, existing := range m.layers {
		if existing.Name == l.Name {
			m.layers[i] = l
			return nil
		}
	}
	m.layers = append(m.layers, l)
	return nil
}

// Layer looks up a layer by name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for _, l := range m.layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Layers returns the layers in draw order.
func (m *Map) Layers() []*Layer {
	return m.layers
}

// TileAt returns the tile on a layer at tile coordinates (x, y).
func (m *Map) TileAt(layer string, x, y int) (int, error) {
	l, ok := m.Layer(layer)
	if !ok {
		return Empty, fmt.Errorf("%w: %s", ErrUnknownLayer, layer)
	}
	id, _ := l.Get(x, y)
	return id, nil
}

// TileSize returns the world size of one tile.
func (m *Map) TileSize() geom.Vec2 {
	return geom.Vec2{
		X: float64(m.Tileset.Sheet.FrameWidth) * m.Scale,
		Y: float64(m.Tileset.Sheet.FrameHeight) * m.Scale,
	}
}

// WorldSize returns the world size of the whole map.
func (m *Map) WorldSize() geom.Vec2 {
	ts := m.TileSize()
	return geom.Vec2{X: ts.X * float64(m.Width), Y: ts.Y * float64(m.Height)}
}

// WorldToTile returns the tile containing a world position. Positions left
// of or above the map give negative coordinates.
func (m *Map) WorldToTile(p geom.Vec2) (x, y int) {
	ts := m.TileSize()
	return int(math.Floor(p.X / ts.X)), int(math.Floor(p.Y / ts.Y))
}

// TileToWorld returns the top-left world position of a tile.
func (m *Map) TileToWorld(x, y int) geom.Vec2 {
	ts := m.TileSize()
	return geom.Vec2{X: float64(x) * ts.X, Y: float64(y) * ts.Y}
}

// InBounds reports whether (x, y) is a cell of the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Top returns the topmost non-empty tile at a cell across visible layers.
func (m *Map) Top(x, y int) (int, bool) {
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if !l.Visible {
			continue
		}
		if id, ok := l.Get(x, y); ok {
			return id, true
		}
	}
	return Empty, false
}

// Blocked reports whether a world position is solid: outside the map, or
// on a cell where any visible layer has a colliding tile.
func (m *Map) Blocked(p geom.Vec2) bool {
	x, y := m.WorldToTile(p)
	if !m.InBounds(x, y) {
		return true
	}
	for _, l := range m.layers {
		if !l.Visible {
			continue
		}
		if id, ok := l.Get(x, y); ok && m.Tileset.Properties(id).Collision {
			return true
		}
	}
	return false
}

// VisibleRange returns the tile rectangle [x0, x1) x [y0, y1) covering the
// world area between lo and hi, clipped to the map.
func (m *Map) VisibleRange(lo, hi geom.Vec2) (x0, y0, x1, y1 int) {
	x0, y0 = m.WorldToTile(lo)
	x1, y1 = m.WorldToTile(hi)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1+1, m.Width), min(y1+1, m.Height)
	return x0, y0, x1, y1
}

// Update advances tile animations.
func (m *Map) Update(dt time.Duration) {
	m.Tileset.Update(dt)
}
