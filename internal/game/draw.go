package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/spritewalk/internal/geom"
	"chosenoffset.com/spritewalk/internal/render"
)

var hudBackground = color.RGBA{0, 0, 0, 160}

// Draw renders the game to the screen. Once the quit signal has been seen
// it draws nothing.
func (g *Game) Draw(screen render.Image) {
	if g.quitting {
		return
	}

	screen.Fill(g.Background)
	g.drawMap(screen)
	g.drawPlayer(screen)
	if g.ShowHUD {
		g.drawHUD(screen)
	}

	g.FrameCount++
}

// drawMap draws the visible layers, skipping tiles outside the screen.
func (g *Game) drawMap(screen render.Image) {
	b := screen.Bounds()
	lo := g.Camera.ScreenToWorld(geom.Vec2{X: float64(b.Min.X), Y: float64(b.Min.Y)})
	hi := g.Camera.ScreenToWorld(geom.Vec2{X: float64(b.Max.X), Y: float64(b.Max.Y)})
	x0, y0, x1, y1 := g.Map.VisibleRange(lo, hi)

	ts := g.Map.Tileset
	scale := g.Map.Scale * g.Camera.Zoom()
	for _, layer := range g.Map.Layers() {
		if !layer.Visible {
			continue
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				id, ok := layer.Get(x, y)
				if !ok {
					continue
				}
				pos := g.Camera.WorldToScreen(g.Map.TileToWorld(x, y))
				geoM := g.Renderer.NewGeoM()
				geoM.Scale(scale, scale)
				geoM.Translate(pos.X, pos.Y)
				screen.DrawImage(ts.Sheet.Frame(ts.Frame(id)), &render.DrawImageOptions{GeoM: geoM})
			}
		}
	}
}

func (g *Game) drawPlayer(screen render.Image) {
	frame := g.Sheet.Frame(g.Player.Anim.SheetFrame())

	pos := g.Camera.WorldToScreen(g.Player.Pos)
	scale := g.PixelScale * g.Camera.Zoom()

	geoM := g.Renderer.NewGeoM()
	geoM.Scale(scale, scale)
	geoM.Translate(pos.X, pos.Y)
	screen.DrawImage(frame, &render.DrawImageOptions{GeoM: geoM})
}

// HUDText is the debug line shown when the HUD is on.
func (g *Game) HUDText() string {
	a := g.Player.Anim
	msg := fmt.Sprintf("%s  frame %d/%d (#%d)  pos %.0f,%.0f  on %s",
		a.State(), a.FrameIndex()+1, a.FrameCount(), a.SheetFrame(),
		g.Player.Pos.X, g.Player.Pos.Y, g.groundName())
	if g.Stats != nil {
		msg += fmt.Sprintf("  tps %.1f", g.Stats.ActualTPS())
	}
	return msg
}

func (g *Game) groundName() string {
	id, ok := g.GroundTile()
	if !ok {
		return "nothing"
	}
	if def, ok := g.Map.Tileset.Def(id); ok && def.Name != "" {
		return def.Name
	}
	return string(g.Map.Tileset.Properties(id).Type)
}

func (g *Game) drawHUD(screen render.Image) {
	const pad = 4
	msg := g.HUDText()
	w, h := g.Renderer.MeasureText(msg, 1)

	g.Renderer.FillRect(screen, 0, 0, float32(w+2*pad), float32(h+2*pad), hudBackground)
	g.Renderer.DrawText(screen, msg, pad, pad, color.White, 1)
}
