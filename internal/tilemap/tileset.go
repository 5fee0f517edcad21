package tilemap

import (
	"fmt"
	"sort"
	"time"

	"chosenoffset.com/spritewalk/internal/sprite"
)

// TileType is the gameplay kind of a tile.
type TileType string

const (
	Ground     TileType = "ground"
	Water      TileType = "water"
	Wall       TileType = "wall"
	Sand       TileType = "sand"
	Decoration TileType = "decoration"
)

// Properties describe how a tile behaves.
type Properties struct {
	Type      TileType
	Collision bool
}

// DefaultProperties is used for tiles without a definition.
func DefaultProperties() Properties {
	return Properties{Type: Ground}
}

// Frame is one step of an animated tile.
type Frame struct {
	Tile     int
	Duration time.Duration
}

// TileDef describes one tile of a tileset. Tile IDs are sheet frame numbers.
type TileDef struct {
	Name       string
	Properties Properties
	// Animation cycles the drawn tile; empty means static.
	Animation []Frame
}

type animState struct {
	frames  []Frame
	current int
	elapsed time.Duration
}

// Tileset is a sprite sheet of tiles plus per-tile definitions.
type Tileset struct {
	Sheet *sprite.Sheet

	defs  map[int]TileDef
	anims map[int]*animState
	order []int // animated IDs, sorted, so updates are deterministic
}

// NewTileset checks every definition against the sheet.
func NewTileset(sheet *sprite.Sheet, defs map[int]TileDef) (*Tileset, error) {
	if sheet == nil {
		return nil, fmt.Errorf("tileset: sheet is nil")
	}
	ts := &Tileset{
		Sheet: sheet,
		defs:  make(map[int]TileDef, len(defs)),
		anims: make(map[int]*animState),
	}
	n := sheet.FrameCount()
	for id, def := range defs {
		if id < 0 || id >= n {
			return nil, fmt.Errorf("%w: tile %d of %d", ErrUnknownTile, id, n)
		}
		if def.Properties.Type == "" {
			def.Properties.Type = Ground
		}
		for _, f := range def.Animation {
			if f.Tile < 0 || f.Tile >= n {
				return nil, fmt.Errorf("%w: tile %d animates to %d of %d", ErrUnknownTile, id, f.Tile, n)
			}
			if f.Duration <= 0 {
				return nil, fmt.Errorf("tileset: tile %d has a frame with duration %v", id, f.Duration)
			}
		}
		def.Animation = append([]Frame(nil), def.Animation...)
		ts.defs[id] = def
		if len(def.Animation) > 0 {
			ts.anims[id] = &animState{frames: def.Animation}
			ts.order = append(ts.order, id)
		}
	}
	sort.Ints(ts.order)
	return ts, nil
}

// Has reports whether id names a tile in the sheet.
func (ts *Tileset) Has(id int) bool {
	return id >= 0 && id < ts.Sheet.FrameCount()
}

// Def returns the definition of a tile, if it has one.
func (ts *Tileset) Def(id int) (TileDef, bool) {
	d, ok := ts.defs[id]
	return d, ok
}

// Properties returns a tile's properties, or the defaults when undefined.
func (ts *Tileset) Properties(id int) Properties {
	if d, ok := ts.defs[id]; ok {
		return d.Properties
	}
	return DefaultProperties()
}

// Frame returns the sheet frame to draw for a tile right now.
func (ts *Tileset) Frame(id int) int {
	if a, ok := ts.anims[id]; ok {
		return a.frames[a.current].Tile
	}
	return id
}

// Update advances every animated tile. At most one step per call.
func (ts *Tileset) Update(dt time.Duration) {
	for _, id := range ts.order {
		a := ts.anims[id]
		a.elapsed += dt
		if a.elapsed >= a.frames[a.current].Duration {
			a.current = (a.current + 1) % len(a.frames)
			a.elapsed = 0
		}
	}
}
