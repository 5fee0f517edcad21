package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"chosenoffset.com/spritewalk/internal/anim"
)

// FrameSize is the size of one frame in the generated sheet.
const FrameSize = 32

// Columns is the number of frames per animation row.
const Columns = 4

// Tile IDs of the generated tileset, row-major in a TileColumns wide sheet.
const (
	TileGrass = iota
	TileFlowers
	TilePath
	TileWall
	TileWater
	TileWaterAlt
	TileSand
	TileBush
	tileCount
)

// TileColumns is the width of the generated tileset in tiles.
const TileColumns = 4

// pixelSize is the size of the hand-placed art before upscaling.
const pixelSize = 16

// ColorPalette defines colors for the placeholder walker
var ColorPalette = struct {
	Key     color.RGBA // Background, keyed out at load time
	Body    color.RGBA
	Outline color.RGBA
	Skin    color.RGBA
	Eye     color.RGBA
	Boots   color.RGBA
}{
	Key:     color.RGBA{0xC6, 0xC6, 0xC4, 255}, // Matches the default color key
	Body:    color.RGBA{0, 200, 90, 255},       // Bright green tunic
	Outline: color.RGBA{20, 40, 30, 255},       // Near-black green
	Skin:    color.RGBA{240, 200, 160, 255},
	Eye:     color.RGBA{20, 20, 20, 255},
	Boots:   color.RGBA{100, 70, 40, 255}, // Leather brown
}

// TilePalette defines colors for the placeholder terrain
var TilePalette = struct {
	Grass, GrassDark    color.RGBA
	Petal, Dirt, Pebble color.RGBA
	Stone, Mortar       color.RGBA
	Water, Foam         color.RGBA
	Sand, SandDark      color.RGBA
}{
	Grass:     color.RGBA{70, 140, 60, 255},
	GrassDark: color.RGBA{50, 110, 45, 255},
	Petal:     color.RGBA{240, 220, 80, 255},
	Dirt:      color.RGBA{140, 105, 70, 255},
	Pebble:    color.RGBA{110, 85, 60, 255},
	Stone:     color.RGBA{120, 120, 130, 255},
	Mortar:    color.RGBA{70, 70, 80, 255},
	Water:     color.RGBA{40, 90, 190, 255},
	Foam:      color.RGBA{150, 190, 240, 255},
	Sand:      color.RGBA{220, 200, 140, 255},
	SandDark:  color.RGBA{195, 175, 120, 255},
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), &image.Uniform{col}, image.Point{}, draw.Src)
}

// drawWalker paints one low-resolution frame. step selects the pose within
// the state's cycle.
func drawWalker(state anim.State, step int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pixelSize, pixelSize))
	fillRect(img, 0, 0, pixelSize, pixelSize, ColorPalette.Key)

	// Idle breathes by bobbing one pixel; walking swaps legs.
	bob := 0
	if state == anim.Idle && step%2 == 1 {
		bob = 1
	}
	stride := 0
	if state != anim.Idle {
		stride = []int{0, 1, 0, -1}[step%4]
	}

	// Head
	fillRect(img, 5, 1+bob, 11, 6+bob, ColorPalette.Outline)
	fillRect(img, 6, 2+bob, 10, 5+bob, ColorPalette.Skin)

	// Eyes show which way the walker faces.
	switch state {
	case anim.MovingLeft:
		img.Set(6, 3+bob, ColorPalette.Eye)
	case anim.MovingRight:
		img.Set(9, 3+bob, ColorPalette.Eye)
	case anim.MovingUp:
		fillRect(img, 6, 2+bob, 10, 4+bob, ColorPalette.Outline) // back of the head
	default:
		img.Set(7, 3+bob, ColorPalette.Eye)
		img.Set(8, 3+bob, ColorPalette.Eye)
	}

	// Body
	fillRect(img, 4, 6+bob, 12, 12, ColorPalette.Outline)
	fillRect(img, 5, 7+bob, 11, 11, ColorPalette.Body)

	// Legs; the lifted one is a pixel shorter.
	fillRect(img, 5, 12, 7, 15-max(stride, 0), ColorPalette.Boots)
	fillRect(img, 9, 12, 11, 15-max(-stride, 0), ColorPalette.Boots)

	return img
}

// CreateFrame creates a single FrameSize x FrameSize frame.
func CreateFrame(state anim.State, step int) *image.RGBA {
	small := drawWalker(state, step)
	frame := image.NewRGBA(image.Rect(0, 0, FrameSize, FrameSize))
	xdraw.NearestNeighbor.Scale(frame, frame.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return frame
}

// drawTile paints one low-resolution terrain tile.
func drawTile(id int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pixelSize, pixelSize))
	p := TilePalette

	switch id {
	case TileGrass, TileFlowers, TileBush:
		fillRect(img, 0, 0, pixelSize, pixelSize, p.Grass)
		for _, pt := range []image.Point{{2, 3}, {9, 1}, {13, 8}, {5, 12}, {11, 14}} {
			img.Set(pt.X, pt.Y, p.GrassDark)
		}
		if id == TileFlowers {
			for _, pt := range []image.Point{{4, 5}, {11, 4}, {7, 10}, {13, 12}} {
				img.Set(pt.X, pt.Y, p.Petal)
			}
		}
		if id == TileBush {
			fillRect(img, 3, 3, 13, 13, p.GrassDark)
			fillRect(img, 5, 4, 11, 7, p.Grass)
		}
	case TilePath:
		fillRect(img, 0, 0, pixelSize, pixelSize, p.Dirt)
		for _, pt := range []image.Point{{3, 2}, {10, 5}, {6, 11}, {13, 13}} {
			img.Set(pt.X, pt.Y, p.Pebble)
		}
	case TileWall:
		fillRect(img, 0, 0, pixelSize, pixelSize, p.Mortar)
		// Staggered bricks, four rows of four pixels.
		for row := 0; row < 4; row++ {
			off := (row % 2) * 4
			for x := -off; x < pixelSize; x += 8 {
				fillRect(img, max(x, 0)+1, row*4+1, min(x+8, pixelSize)-1, row*4+4, p.Stone)
			}
		}
	case TileWater, TileWaterAlt:
		fillRect(img, 0, 0, pixelSize, pixelSize, p.Water)
		// The two water tiles shift their ripples to animate.
		shift := 0
		if id == TileWaterAlt {
			shift = 3
		}
		for y := 2; y < pixelSize; y += 5 {
			x := (y*3 + shift) % 10
			fillRect(img, x, y, x+4, y+1, p.Foam)
		}
	case TileSand:
		fillRect(img, 0, 0, pixelSize, pixelSize, p.Sand)
		for _, pt := range []image.Point{{1, 1}, {8, 3}, {12, 9}, {4, 13}, {14, 14}} {
			img.Set(pt.X, pt.Y, p.SandDark)
		}
	}
	return img
}

// CreateTile creates a single FrameSize x FrameSize terrain tile.
func CreateTile(id int) *image.RGBA {
	small := drawTile(id)
	tile := image.NewRGBA(image.Rect(0, 0, FrameSize, FrameSize))
	xdraw.NearestNeighbor.Scale(tile, tile.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return tile
}

// CreateTileset lays out every terrain tile row-major, TileColumns wide.
func CreateTileset() *image.RGBA {
	rows := (tileCount + TileColumns - 1) / TileColumns
	sheet := image.NewRGBA(image.Rect(0, 0, TileColumns*FrameSize, rows*FrameSize))
	for id := 0; id < tileCount; id++ {
		x := (id % TileColumns) * FrameSize
		y := (id / TileColumns) * FrameSize
		draw.Draw(sheet, image.Rect(x, y, x+FrameSize, y+FrameSize), CreateTile(id), image.Point{}, draw.Src)
	}
	return sheet
}

// CreateSheet lays out one row per animation state (in anim.States order)
// with Columns frames each, matching anim.RowLibrary(Columns).
func CreateSheet() *image.RGBA {
	states := anim.States()
	sheet := image.NewRGBA(image.Rect(0, 0, Columns*FrameSize, len(states)*FrameSize))

	for row, state := range states {
		for col := 0; col < Columns; col++ {
			x := col * FrameSize
			y := row * FrameSize
			destRect := image.Rect(x, y, x+FrameSize, y+FrameSize)
			draw.Draw(sheet, destRect, CreateFrame(state, col), image.Point{}, draw.Src)
		}
	}

	return sheet
}

// SavePNG saves an image to a PNG file, creating parent directories.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// GenerateAndSave writes the placeholder sprite sheet to path.
func GenerateAndSave(path string) error {
	return SavePNG(CreateSheet(), path)
}

// GenerateTilesetAndSave writes the placeholder tileset to path.
func GenerateTilesetAndSave(path string) error {
	return SavePNG(CreateTileset(), path)
}
