package game

import (
	"errors"
	"log/slog"
	"os"

	"chosenoffset.com/spritewalk/internal/config"
	"chosenoffset.com/spritewalk/internal/logging"
	"chosenoffset.com/spritewalk/internal/placeholders"
	"chosenoffset.com/spritewalk/internal/render"
	"chosenoffset.com/spritewalk/internal/sprite"
)

// Assets are the images the game draws from.
type Assets struct {
	Sprite *sprite.Sheet
	Tiles  *sprite.Sheet
}

// LoadAssets loads the character sheet and the tileset.
func LoadAssets(cfg *config.Config, loader render.ResourceLoader, logger *slog.Logger) (*Assets, error) {
	spriteSheet, err := LoadSheet(cfg, loader, logger)
	if err != nil {
		return nil, err
	}
	tiles, err := LoadTileset(cfg, loader, logger)
	if err != nil {
		spriteSheet.Image.Dispose()
		return nil, err
	}
	return &Assets{Sprite: spriteSheet, Tiles: tiles}, nil
}

// Dispose releases the uploaded images.
func (a *Assets) Dispose() {
	for _, s := range []*sprite.Sheet{a.Sprite, a.Tiles} {
		if s != nil && s.Image != nil {
			s.Image.Dispose()
		}
	}
}

// LoadSheet loads the configured sprite sheet. When the file does not exist
// it falls back to the generated placeholder sheet so the game still runs.
// Any other failure is returned.
func LoadSheet(cfg *config.Config, loader render.ResourceLoader, logger *slog.Logger) (*sprite.Sheet, error) {
	logger = logging.OrDiscard(logger)

	key, err := cfg.ColorKey()
	if err != nil {
		return nil, err
	}
	keyAttr := slog.String("color_key", "none")
	if key != nil {
		keyAttr = slog.String("color_key", key.Hex())
	}

	sheet, err := sprite.Load(cfg.Sprite.Path, cfg.Sprite.FrameWidth, cfg.Sprite.FrameHeight, key, loader)
	if err == nil {
		logger.Info("loaded sprite sheet", "path", cfg.Sprite.Path,
			"frames", sheet.FrameCount(), "columns", sheet.Columns, "rows", sheet.Rows, keyAttr)
		return sheet, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	logger.Warn("sprite sheet not found, using placeholder", "path", cfg.Sprite.Path, keyAttr,
		"hint", "run go run ./cmd/genplaceholders to write one")
	return sprite.FromImage(placeholders.CreateSheet(), placeholders.FrameSize, placeholders.FrameSize, key, loader)
}

// LoadTileset loads the configured tileset image, falling back to the
// generated tileset when the file does not exist. Tiles are not color keyed.
func LoadTileset(cfg *config.Config, loader render.ResourceLoader, logger *slog.Logger) (*sprite.Sheet, error) {
	logger = logging.OrDiscard(logger)

	sheet, err := sprite.Load(cfg.Map.Tileset, cfg.Map.TileWidth, cfg.Map.TileHeight, nil, loader)
	if err == nil {
		logger.Info("loaded tileset", "path", cfg.Map.Tileset, "tiles", sheet.FrameCount())
		return sheet, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	logger.Warn("tileset not found, using placeholder", "path", cfg.Map.Tileset)
	return sprite.FromImage(placeholders.CreateTileset(), placeholders.FrameSize, placeholders.FrameSize, nil, loader)
}
