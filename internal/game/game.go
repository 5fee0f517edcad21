package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"chosenoffset.com/spritewalk/internal/anim"
	"chosenoffset.com/spritewalk/internal/camera"
	"chosenoffset.com/spritewalk/internal/config"
	"chosenoffset.com/spritewalk/internal/geom"
	"chosenoffset.com/spritewalk/internal/input"
	"chosenoffset.com/spritewalk/internal/logging"
	"chosenoffset.com/spritewalk/internal/render"
	"chosenoffset.com/spritewalk/internal/sprite"
	"chosenoffset.com/spritewalk/internal/tilemap"
)

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Renderer     render.Renderer
	Keys         render.InputManager
	Stats        render.Stats // Optional; shown on the HUD
	Input        *input.Manager
	Sheet        *sprite.Sheet
	Map          *tilemap.Map
	Player       Character
	Camera       *camera.Camera

	// Tuning
	Speed        float64       // Pixels per tick per axis
	PixelScale   float64       // Sprite magnification
	Tick         time.Duration // Fixed timestep of one Update
	Background   color.Color
	FollowCamera bool
	Resizable    bool // Layout follows the window size

	// UI state
	ShowHUD bool

	// Debug
	TickCount  int
	FrameCount int

	assets   *Assets
	log      *slog.Logger
	quitting bool
}

// New builds a game from its config and already loaded assets.
func New(cfg *config.Config, r render.Renderer, keys render.InputManager, assets *Assets, logger *slog.Logger) (*Game, error) {
	sheet := assets.Sprite
	lib, err := cfg.Library(sheet.Columns, sheet.Rows)
	if err != nil {
		return nil, fmt.Errorf("animations: %w", err)
	}
	animator, err := anim.NewAnimator(lib, cfg.FrameDuration())
	if err != nil {
		return nil, err
	}

	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, fmt.Errorf("controls: %w", err)
	}
	inputMgr := input.NewManager()
	for action, keys := range bindings {
		inputMgr.Remap(action, keys...)
	}

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	world, err := cfg.TileMap(assets.Tiles)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}

	cam := camera.New(float64(cfg.Window.Width), float64(cfg.Window.Height))
	cam.SetLerpSpeed(cfg.Camera.LerpSpeed)
	cam.SetZoom(cfg.Camera.Zoom)
	cam.SetWorldBounds(geom.Vec2{}, world.WorldSize())

	g := &Game{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Renderer:     r,
		Keys:         keys,
		Input:        inputMgr,
		Sheet:        sheet,
		Map:          world,
		Player: Character{
			Pos:  geom.Vec2{X: cfg.Player.StartX, Y: cfg.Player.StartY},
			Anim: animator,
		},
		Camera:       cam,
		Speed:        cfg.Player.Speed,
		PixelScale:   cfg.Sprite.PixelScale,
		Tick:         cfg.TickDuration(),
		Background:   bg,
		FollowCamera: cfg.Camera.Follow,
		Resizable:    cfg.Window.Resizable,
		assets:       assets,
		log:          logging.OrDiscard(logger).With("component", "game"),
	}
	g.Player.Pos = g.clampToWorld(g.Player.Pos)
	if g.blocked(g.Player.Pos) {
		return nil, fmt.Errorf("player start %.0f,%.0f is on a solid tile", g.Player.Pos.X, g.Player.Pos.Y)
	}
	if g.FollowCamera {
		g.Camera.SetLerpSpeed(1)
		g.Camera.Follow(g.playerCenter(), g.Tick.Seconds())
		g.Camera.SetLerpSpeed(cfg.Camera.LerpSpeed)
	}
	return g, nil
}

// Update handles game logic updates: sample input, check for quit, update
// the animation state and move the character.
func (g *Game) Update() error {
	if g.quitting {
		return render.ErrQuit
	}

	in := g.Input.Sample(g.Keys)
	if in.Quit() {
		g.quitting = true
		g.log.Info("quit requested", "ticks", g.TickCount, "frames", g.FrameCount)
		return render.ErrQuit
	}

	dx, dy := in.Movement()
	prev := g.Player.State()
	if g.Player.Anim.Update(anim.StateFor(dx, dy), g.Tick) {
		g.log.Debug("animation state changed", "from", prev, "to", g.Player.State())
	}

	// Axes move separately so the character slides along walls.
	g.tryMove(geom.Vec2{X: float64(dx) * g.Speed})
	g.tryMove(geom.Vec2{Y: float64(dy) * g.Speed})
	g.Map.Update(g.Tick)

	if g.FollowCamera {
		g.Camera.Follow(g.playerCenter(), g.Tick.Seconds())
	}

	if in.JustPressed(input.ToggleHUD) {
		g.ShowHUD = !g.ShowHUD
	}

	g.TickCount++
	return nil
}

// Quitting reports whether the quit signal has been seen.
func (g *Game) Quitting() bool {
	return g.quitting
}

// Layout returns the game's logical screen size. A resizable game adopts
// the window size and widens the camera to match.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Resizable && outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.ScreenWidth || outsideHeight != g.ScreenHeight) {
		g.ScreenWidth, g.ScreenHeight = outsideWidth, outsideHeight
		g.Camera.SetViewport(float64(outsideWidth), float64(outsideHeight))
		g.log.Debug("viewport resized", "width", outsideWidth, "height", outsideHeight)
	}
	return g.ScreenWidth, g.ScreenHeight
}

// Close releases the game's images. The game must not be drawn afterwards.
func (g *Game) Close() {
	if g.assets != nil {
		g.assets.Dispose()
		g.assets = nil
	}
}

// spriteSize is the on-screen size of one frame before camera zoom.
func (g *Game) spriteSize() geom.Vec2 {
	return geom.Vec2{
		X: float64(g.Sheet.FrameWidth) * g.PixelScale,
		Y: float64(g.Sheet.FrameHeight) * g.PixelScale,
	}
}

func (g *Game) playerCenter() geom.Vec2 {
	return g.Player.Pos.Add(g.spriteSize().Scale(0.5))
}

// feet returns the two points along the bottom of the sprite that must
// stay off solid tiles.
func (g *Game) feet(pos geom.Vec2) [2]geom.Vec2 {
	size := g.spriteSize()
	y := pos.Y + size.Y - 1
	return [2]geom.Vec2{
		{X: pos.X + size.X*0.25, Y: y},
		{X: pos.X + size.X*0.75, Y: y},
	}
}

func (g *Game) blocked(pos geom.Vec2) bool {
	for _, p := range g.feet(pos) {
		if g.Map.Blocked(p) {
			return true
		}
	}
	return false
}

func (g *Game) tryMove(delta geom.Vec2) {
	if delta == (geom.Vec2{}) {
		return
	}
	next := g.clampToWorld(g.Player.Pos.Add(delta))
	if g.blocked(next) {
		return
	}
	g.Player.Pos = next
}

// clampToWorld keeps the whole sprite inside the map.
func (g *Game) clampToWorld(pos geom.Vec2) geom.Vec2 {
	size := g.spriteSize()
	world := g.Map.WorldSize()
	return geom.Vec2{
		X: geom.Clamp(pos.X, 0, world.X-size.X),
		Y: geom.Clamp(pos.Y, 0, world.Y-size.Y),
	}
}

// GroundTile returns the topmost tile under the character's feet.
func (g *Game) GroundTile() (int, bool) {
	size := g.spriteSize()
	x, y := g.Map.WorldToTile(g.Player.Pos.Add(geom.Vec2{X: size.X / 2, Y: size.Y - 1}))
	return g.Map.Top(x, y)
}
