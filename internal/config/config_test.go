package config

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/spritewalk/internal/anim"
	"chosenoffset.com/spritewalk/internal/input"
	"chosenoffset.com/spritewalk/internal/render"
	"chosenoffset.com/spritewalk/internal/render/rendertest"
	"chosenoffset.com/spritewalk/internal/sprite"
	"chosenoffset.com/spritewalk/internal/tilemap"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 120*time.Millisecond, cfg.FrameDuration())
	assert.Equal(t, time.Second/60, cfg.TickDuration())

	key, err := cfg.ColorKey()
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "#C6C6C4", key.Hex())

	bg, err := cfg.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 0xFF}, bg)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  title: Test
player:
  speed: 5
sprite:
  color_key: ""
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 5.0, cfg.Player.Speed)
	assert.Equal(t, 400.0, cfg.Player.StartX)

	key, err := cfg.ColorKey()
	require.NoError(t, err)
	assert.Nil(t, key)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestParseRejectsInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"window":      "window: {width: 0}",
		"tps":         "window: {tps: -1}",
		"background":  "window: {background: nope}",
		"frame":       "sprite: {frame_width: 0}",
		"scale":       "sprite: {pixel_scale: 0}",
		"duration":    "sprite: {frame_duration_ms: 0}",
		"color key":   "sprite: {color_key: '#12'}",
		"state":       "sprite: {animations: {jumping: {frames: [0]}}}",
		"empty anim":  "sprite: {animations: {idle: {frames: []}}}",
		"speed":       "player: {speed: -1}",
		"lerp":        "camera: {lerp_speed: 2}",
		"zoom":        "camera: {zoom: 0}",
		"action":      "controls: {jump: [Space]}",
		"key":         "controls: {quit: [F13]}",
		"log level":   "log_level: loud",
		"not yaml":    "window: [",
		"tileset":     "map: {tileset: ''}",
		"tile size":   "map: {tile_width: 0}",
		"map scale":   "map: {scale: 0}",
		"map size":    "map: {width: 0}",
		"tile type":   "map: {tiles: {9: {type: lava}}}",
		"tile frame":  "map: {tiles: {4: {animation: [{tile: 4, duration_ms: 0}]}}}",
		"layer name":  "map: {layers: [{fill: 0}]}",
		"dup layer":   "map: {layers: [{name: a}, {name: a}]}",
		"rect":        "map: {layers: [{name: a, rects: [{w: -1, h: 1}]}]}",
	} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLibrary(t *testing.T) {
	cfg, err := Parse([]byte(`
sprite:
  animations:
    idle:
      frames: [0, 1]
    moving_left:
      frames: [7, 6]
      repeat: false
`))
	require.NoError(t, err)

	lib, err := cfg.Library(4, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, lib[anim.Idle].Frames)
	assert.Equal(t, []int{7, 6}, lib[anim.MovingLeft].Frames)
	assert.False(t, lib[anim.MovingLeft].Repeat)
	assert.True(t, lib[anim.Idle].Repeat)
	// Untouched states use their sheet row.
	assert.Equal(t, []int{4, 5, 6, 7}, lib[anim.MovingUp].Frames)

	_, err = cfg.Library(4, 4)
	assert.ErrorIs(t, err, anim.ErrFrameOutOfRange)
}

func newTileSheet(t *testing.T, w, h int) *sprite.Sheet {
	t.Helper()
	sheet, err := sprite.NewSheet(rendertest.NewImage(w, h), 32, 32, nil)
	require.NoError(t, err)
	return sheet
}

func TestTileMap(t *testing.T) {
	m, err := Default().TileMap(newTileSheet(t, 128, 64))
	require.NoError(t, err)

	assert.Equal(t, 40, m.Width)
	assert.Equal(t, 1280.0, m.WorldSize().X)
	assert.Equal(t, 960.0, m.WorldSize().Y)
	require.Len(t, m.Layers(), 2)

	for _, tc := range []struct {
		layer string
		x, y  int
		want  int
	}{
		{"floor", 3, 3, 0},
		{"floor", 2, 14, 2},
		{"floor", 30, 4, 6},
		{"walls", 0, 0, 3},
		{"walls", 39, 12, 3},
		{"walls", 28, 6, 4},
		{"walls", 10, 10, tilemap.Empty},
	} {
		id, err := m.TileAt(tc.layer, tc.x, tc.y)
		require.NoError(t, err)
		assert.Equal(t, tc.want, id, "%s %d,%d", tc.layer, tc.x, tc.y)
	}

	ts := m.Tileset
	assert.True(t, ts.Properties(3).Collision)
	assert.Equal(t, tilemap.Water, ts.Properties(4).Type)
	assert.False(t, ts.Properties(0).Collision)
	def, ok := ts.Def(7)
	require.True(t, ok)
	assert.Equal(t, "bush", def.Name)
}

func TestParseMapOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
map:
  width: 4
  height: 3
  tiles:
    1: {name: daisies}
  layers:
    - name: ground
      fill: 6
      rects:
        - {x: 1, y: 1, w: 2, h: 1, tile: 1}
    - name: roof
      hidden: true
      fill: 3
`))
	require.NoError(t, err)

	// Tiles merge by ID; layers replace the default map.
	assert.Equal(t, "daisies", cfg.Map.Tiles[1].Name)
	assert.Equal(t, "wall", cfg.Map.Tiles[3].Name)
	require.Len(t, cfg.Map.Layers, 2)

	m, err := cfg.TileMap(newTileSheet(t, 128, 64))
	require.NoError(t, err)
	id, err := m.TileAt("ground", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	roof, ok := m.Layer("roof")
	require.True(t, ok)
	assert.False(t, roof.Visible)
	top, ok := m.Top(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 6, top)
}

func TestTileMapRejectsUnknownTiles(t *testing.T) {
	// One row of four tiles cannot hold the default water and bush.
	_, err := Default().TileMap(newTileSheet(t, 128, 32))
	assert.ErrorIs(t, err, tilemap.ErrUnknownTile)

	cfg, err := Parse([]byte(`
map:
  layers:
    - name: floor
      rects: [{x: 0, y: 0, w: 1, h: 1, tile: 12}]
`))
	require.NoError(t, err)
	_, err = cfg.TileMap(newTileSheet(t, 128, 64))
	assert.ErrorIs(t, err, tilemap.ErrUnknownTile)
}

func TestBindings(t *testing.T) {
	cfg, err := Parse([]byte(`
controls:
  quit: [Esc, Space]
`))
	require.NoError(t, err)

	b, err := cfg.Bindings()
	require.NoError(t, err)
	assert.Equal(t, []render.Key{render.KeyEscape, render.KeySpace}, b[input.Quit])
	assert.Equal(t, []render.Key{render.KeyW, render.KeyUp}, b[input.MoveUp])
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, found, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player: {speed: 3}\n"), 0o644))
	cfg, found, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3.0, cfg.Player.Speed)

	require.NoError(t, os.WriteFile(path, []byte("player: {speed: -3}\n"), 0o644))
	_, _, err = LoadOrDefault(path)
	assert.Error(t, err)
}

func TestShippedConfigParses(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, "Spritewalk", cfg.Window.Title)
}
