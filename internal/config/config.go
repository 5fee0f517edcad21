// Package config holds the tunable settings of the game. Settings are read
// from a YAML file so the example can be re-skinned without a rebuild; any
// field the file leaves out keeps its default.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/spritewalk/internal/anim"
	"chosenoffset.com/spritewalk/internal/input"
	"chosenoffset.com/spritewalk/internal/render"
	"chosenoffset.com/spritewalk/internal/sprite"
	"chosenoffset.com/spritewalk/internal/tilemap"
)

// DefaultPath is where the game looks for its config file.
const DefaultPath = "config/game.yaml"

// Config holds all settings for a run of the game
type Config struct {
	Window WindowConfig `yaml:"window"`
	Sprite SpriteConfig `yaml:"sprite"`
	Player PlayerConfig `yaml:"player"`
	Camera CameraConfig `yaml:"camera"`
	Map    MapConfig    `yaml:"map"`

	// Controls maps action names (e.g. "move_up") to key names (e.g. "W", "Up").
	// Listed actions replace the default bindings; others keep them.
	Controls map[string][]string `yaml:"controls"`

	LogLevel string `yaml:"log_level"` // debug, info, warn or error
}

// WindowConfig defines the window and tick rate
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Resizable  bool   `yaml:"resizable"`
	TPS        int    `yaml:"tps"`        // Update calls per second
	Background string `yaml:"background"` // Clear color, "#RRGGBB"
}

// SpriteConfig defines the sprite sheet and its animations
type SpriteConfig struct {
	Path              string  `yaml:"path"`
	FrameWidth        int     `yaml:"frame_width"`
	FrameHeight       int     `yaml:"frame_height"`
	ColorKey          string  `yaml:"color_key"` // Empty disables keying
	ColorKeyThreshold float64 `yaml:"color_key_threshold"`
	PixelScale        float64 `yaml:"pixel_scale"`
	FrameDurationMS   int     `yaml:"frame_duration_ms"`

	// Animations overrides the per-state sequences by state name
	// ("idle", "moving_up", ...). States left out use one sheet row each.
	Animations map[string]AnimationConfig `yaml:"animations"`
}

// AnimationConfig is one state's frame list
type AnimationConfig struct {
	Frames []int `yaml:"frames"`
	Repeat *bool `yaml:"repeat"` // Defaults to true
}

// PlayerConfig defines the walking character
type PlayerConfig struct {
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
	Speed  float64 `yaml:"speed"` // Pixels per tick per axis
}

// CameraConfig defines camera behaviour
type CameraConfig struct {
	Follow    bool    `yaml:"follow"`
	LerpSpeed float64 `yaml:"lerp_speed"`
	Zoom      float64 `yaml:"zoom"`
}

// MapConfig defines the tile world. Its size in world units also bounds
// the character and the camera.
type MapConfig struct {
	Tileset    string  `yaml:"tileset"` // Image path; a generated tileset is used when missing
	TileWidth  int     `yaml:"tile_width"`
	TileHeight int     `yaml:"tile_height"`
	Scale      float64 `yaml:"scale"`
	Width      int     `yaml:"width"`  // In tiles
	Height     int     `yaml:"height"` // In tiles

	// Tiles defines tiles by ID. Listed IDs are merged over the defaults.
	Tiles map[int]TileConfig `yaml:"tiles"`
	// Layers draw bottom to top. A listed layers block replaces the default map.
	Layers []LayerConfig `yaml:"layers"`
}

// TileConfig is one tile's definition
type TileConfig struct {
	Name      string            `yaml:"name"`
	Type      string            `yaml:"type"` // ground, water, wall, sand or decoration
	Collision bool              `yaml:"collision"`
	Animation []TileFrameConfig `yaml:"animation"`
}

// TileFrameConfig is one step of an animated tile
type TileFrameConfig struct {
	Tile       int `yaml:"tile"`
	DurationMS int `yaml:"duration_ms"`
}

// LayerConfig builds one layer from a fill and rectangles painted in order
type LayerConfig struct {
	Name   string       `yaml:"name"`
	Hidden bool         `yaml:"hidden"`
	Fill   *int         `yaml:"fill"` // Unset leaves cells empty
	Rects  []RectConfig `yaml:"rects"`
}

// RectConfig paints a block of cells with one tile
type RectConfig struct {
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	W    int `yaml:"w"`
	H    int `yaml:"h"`
	Tile int `yaml:"tile"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Spritewalk",
			Width:      800,
			Height:     600,
			Resizable:  false,
			TPS:        60,
			Background: "#000000",
		},
		Sprite: SpriteConfig{
			Path:              "assets/sprite.png",
			FrameWidth:        32,
			FrameHeight:       32,
			ColorKey:          "#C6C6C4",
			ColorKeyThreshold: sprite.DefaultThreshold,
			PixelScale:        3,
			FrameDurationMS:   120,
		},
		Player: PlayerConfig{
			StartX: 400,
			StartY: 300,
			Speed:  2,
		},
		Camera: CameraConfig{
			Follow:    false,
			LerpSpeed: 0.1,
			Zoom:      1,
		},
		Map:      defaultMap(),
		LogLevel: "info",
	}
}

// defaultMap is a walled meadow laid out on the generated tileset:
// 0 grass, 1 flowers, 2 path, 3 wall, 4/5 water, 6 sand, 7 bush.
func defaultMap() MapConfig {
	grass := 0
	return MapConfig{
		Tileset:    "assets/tiles.png",
		TileWidth:  32,
		TileHeight: 32,
		Scale:      1,
		Width:      40,
		Height:     30,
		Tiles: map[int]TileConfig{
			1: {Name: "flowers", Type: "decoration"},
			2: {Name: "path", Type: "ground"},
			3: {Name: "wall", Type: "wall", Collision: true},
			4: {Name: "water", Type: "water", Collision: true, Animation: []TileFrameConfig{
				{Tile: 4, DurationMS: 400},
				{Tile: 5, DurationMS: 400},
			}},
			6: {Name: "sand", Type: "sand"},
			7: {Name: "bush", Type: "decoration", Collision: true},
		},
		Layers: []LayerConfig{
			{
				Name: "floor",
				Fill: &grass,
				Rects: []RectConfig{
					{X: 1, Y: 14, W: 38, H: 2, Tile: 2},
					{X: 26, Y: 4, W: 8, H: 6, Tile: 6},
					{X: 5, Y: 5, W: 3, H: 2, Tile: 1},
					{X: 8, Y: 22, W: 4, H: 2, Tile: 1},
				},
			},
			{
				Name: "walls",
				Rects: []RectConfig{
					{X: 0, Y: 0, W: 40, H: 1, Tile: 3},
					{X: 0, Y: 29, W: 40, H: 1, Tile: 3},
					{X: 0, Y: 0, W: 1, H: 30, Tile: 3},
					{X: 39, Y: 0, W: 1, H: 30, Tile: 3},
					{X: 27, Y: 5, W: 6, H: 4, Tile: 4},
					{X: 20, Y: 21, W: 2, H: 1, Tile: 7},
				},
			},
		},
	}
}

// Load reads the config at path on top of the defaults and validates it.
// A missing file yields an error wrapping os.ErrNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file returns the defaults.
func LoadOrDefault(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that can be checked without the sprite sheet.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "invalid window size: %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.TPS > 0, "tps must be positive, got %d", c.Window.TPS)
	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}

	check(c.Sprite.Path != "", "sprite path is required")
	check(c.Sprite.FrameWidth > 0 && c.Sprite.FrameHeight > 0,
		"invalid frame dimensions: %dx%d", c.Sprite.FrameWidth, c.Sprite.FrameHeight)
	check(c.Sprite.PixelScale > 0, "pixel_scale must be positive, got %v", c.Sprite.PixelScale)
	check(c.Sprite.FrameDurationMS > 0, "frame_duration_ms must be positive, got %d", c.Sprite.FrameDurationMS)
	if _, err := c.ColorKey(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.animations(1); err != nil {
		errs = append(errs, err)
	}

	check(c.Player.Speed >= 0, "player speed must not be negative, got %v", c.Player.Speed)
	check(c.Camera.LerpSpeed >= 0 && c.Camera.LerpSpeed <= 1, "camera lerp_speed must be in [0, 1], got %v", c.Camera.LerpSpeed)
	check(c.Camera.Zoom > 0, "camera zoom must be positive, got %v", c.Camera.Zoom)
	if _, err := c.tileDefs(); err != nil {
		errs = append(errs, err)
	}
	check(c.Map.Tileset != "", "map tileset is required")
	check(c.Map.TileWidth > 0 && c.Map.TileHeight > 0,
		"invalid tile dimensions: %dx%d", c.Map.TileWidth, c.Map.TileHeight)
	check(c.Map.Scale > 0, "map scale must be positive, got %v", c.Map.Scale)
	check(c.Map.Width > 0 && c.Map.Height > 0, "invalid map size: %dx%d", c.Map.Width, c.Map.Height)
	seen := make(map[string]bool, len(c.Map.Layers))
	for i, l := range c.Map.Layers {
		check(l.Name != "", "map layer %d has no name", i)
		check(!seen[l.Name], "duplicate map layer %q", l.Name)
		seen[l.Name] = true
		for _, r := range l.Rects {
			check(r.W >= 0 && r.H >= 0, "layer %s: negative rect size %dx%d", l.Name, r.W, r.H)
		}
	}

	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// FrameDuration returns how long each animation frame is shown.
func (c *Config) FrameDuration() time.Duration {
	return time.Duration(c.Sprite.FrameDurationMS) * time.Millisecond
}

// TickDuration returns the fixed timestep of one Update call.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.Window.TPS)
}

// ColorKey parses the sprite color key. It returns nil when keying is off.
func (c *Config) ColorKey() (*sprite.ColorKey, error) {
	if c.Sprite.ColorKey == "" {
		return nil, nil
	}
	k, err := sprite.ParseColorKey(c.Sprite.ColorKey, c.Sprite.ColorKeyThreshold)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// BackgroundColor parses the window clear color.
func (c *Config) BackgroundColor() (color.Color, error) {
	k, err := sprite.ParseColorKey(c.Window.Background, 0)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	return color.NRGBA{R: k.R, G: k.G, B: k.B, A: 0xFF}, nil
}

// Library builds the animation library for a sheet of columns x rows
// frames and checks every frame against it. States without an override
// use one sheet row each.
func (c *Config) Library(columns, rows int) (anim.Library, error) {
	lib, err := c.animations(columns)
	if err != nil {
		return nil, err
	}
	if err := lib.Validate(columns * rows); err != nil {
		return nil, err
	}
	return lib, nil
}

func (c *Config) animations(columns int) (anim.Library, error) {
	if columns <= 0 {
		columns = 1
	}
	lib := anim.RowLibrary(columns)
	for name, ac := range c.Sprite.Animations {
		state, err := anim.ParseState(name)
		if err != nil {
			return nil, err
		}
		if len(ac.Frames) == 0 {
			return nil, fmt.Errorf("%w: %s", anim.ErrEmptySequence, state)
		}
		repeat := true
		if ac.Repeat != nil {
			repeat = *ac.Repeat
		}
		lib[state] = anim.Sequence{Name: state.String(), Frames: ac.Frames, Repeat: repeat}
	}
	return lib, nil
}

func (c *Config) tileDefs() (map[int]tilemap.TileDef, error) {
	defs := make(map[int]tilemap.TileDef, len(c.Map.Tiles))
	for id, tc := range c.Map.Tiles {
		typ := tilemap.TileType(strings.ToLower(tc.Type))
		if typ == "" {
			typ = tilemap.Ground
		}
		if !typ.Valid() {
			return nil, fmt.Errorf("tile %d: unknown type %q", id, tc.Type)
		}
		def := tilemap.TileDef{
			Name:       tc.Name,
			Properties: tilemap.Properties{Type: typ, Collision: tc.Collision},
		}
		for _, f := range tc.Animation {
			if f.DurationMS <= 0 {
				return nil, fmt.Errorf("tile %d: animation duration_ms must be positive, got %d", id, f.DurationMS)
			}
			def.Animation = append(def.Animation, tilemap.Frame{
				Tile:     f.Tile,
				Duration: time.Duration(f.DurationMS) * time.Millisecond,
			})
		}
		defs[id] = def
	}
	return defs, nil
}

// TileMap builds the configured map on a loaded tileset sheet. Tile IDs are
// checked against the sheet here.
func (c *Config) TileMap(sheet *sprite.Sheet) (*tilemap.Map, error) {
	defs, err := c.tileDefs()
	if err != nil {
		return nil, err
	}
	ts, err := tilemap.NewTileset(sheet, defs)
	if err != nil {
		return nil, err
	}
	m, err := tilemap.New(c.Map.Width, c.Map.Height, c.Map.Scale, ts)
	if err != nil {
		return nil, err
	}
	for _, lc := range c.Map.Layers {
		l := tilemap.NewLayer(lc.Name, m.Width, m.Height)
		l.Visible = !lc.Hidden
		if lc.Fill != nil {
			l.Fill(*lc.Fill)
		}
		for _, r := range lc.Rects {
			l.FillRect(r.X, r.Y, r.W, r.H, r.Tile)
		}
		if err := m.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Bindings returns the default key bindings with Controls applied.
func (c *Config) Bindings() (map[input.Action][]render.Key, error) {
	bindings := input.DefaultBindings()
	for name, keyNames := range c.Controls {
		action, err := input.ParseAction(name)
		if err != nil {
			return nil, err
		}
		keys := make([]render.Key, 0, len(keyNames))
		for _, kn := range keyNames {
			k, err := render.ParseKey(kn)
			if err != nil {
				return nil, fmt.Errorf("controls.%s: %w", name, err)
			}
			keys = append(keys, k)
		}
		bindings[action] = keys
	}
	return bindings, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
