// Package sprite loads sprite sheets and cuts them into frames.
package sprite

import (
	"fmt"
	"image"
	"os"

	// Sheet formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"chosenoffset.com/spritewalk/internal/render"
)

// Sheet is an image split into a grid of equally sized frames, numbered
// row-major from the top-left. It is not modified after creation.
type Sheet struct {
	Image       render.Image
	FrameWidth  int
	FrameHeight int
	Columns     int
	Rows        int
	// ColorKey is the key that was applied when the sheet was loaded, if any.
	ColorKey *ColorKey
}

// NewSheet wraps an already loaded image.
func NewSheet(img render.Image, frameWidth, frameHeight int, key *ColorKey) (*Sheet, error) {
	if img == nil {
		return nil, fmt.Errorf("sprite sheet image is nil")
	}
	cols, rows, err := grid(img.Bounds(), frameWidth, frameHeight)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		Image:       img,
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		Columns:     cols,
		Rows:        rows,
		ColorKey:    key,
	}, nil
}

func grid(bounds image.Rectangle, frameWidth, frameHeight int) (cols, rows int, err error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return 0, 0, fmt.Errorf("invalid frame dimensions: %dx%d", frameWidth, frameHeight)
	}
	cols = bounds.Dx() / frameWidth
	rows = bounds.Dy() / frameHeight
	if cols == 0 || rows == 0 {
		return 0, 0, fmt.Errorf("frame %dx%d does not fit sheet %dx%d",
			frameWidth, frameHeight, bounds.Dx(), bounds.Dy())
	}
	return cols, rows, nil
}

// FrameCount returns the number of whole frames in the sheet.
func (s *Sheet) FrameCount() int {
	return s.Columns * s.Rows
}

// FrameRect returns the source rectangle of a frame. Out-of-range frame
// numbers wrap around the sheet.
func (s *Sheet) FrameRect(frame int) image.Rectangle {
	n := s.FrameCount()
	frame = ((frame % n) + n) % n

	col := frame % s.Columns
	row := frame / s.Columns
	origin := s.Image.Bounds().Min.Add(image.Pt(col*s.FrameWidth, row*s.FrameHeight))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(s.FrameWidth, s.FrameHeight))}
}

// Frame returns the sub-image for a frame.
func (s *Sheet) Frame(frame int) render.Image {
	return s.Image.SubImage(s.FrameRect(frame))
}

// DecodeFile reads and decodes a PNG, BMP, GIF or JPEG image.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sprite sheet %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sprite sheet %s: %w", path, err)
	}
	return img, nil
}

// FromImage applies the optional color key to decoded pixels and uploads
// them through loader.
func FromImage(src image.Image, frameWidth, frameHeight int, key *ColorKey, loader render.ResourceLoader) (*Sheet, error) {
	// Validate before paying for the upload.
	if _, _, err := grid(src.Bounds(), frameWidth, frameHeight); err != nil {
		return nil, err
	}
	if key != nil {
		src = ApplyColorKey(src, *key)
	}
	return NewSheet(loader.NewImageFromImage(src), frameWidth, frameHeight, key)
}

// Load decodes the sheet at path and prepares it for drawing.
func Load(path string, frameWidth, frameHeight int, key *ColorKey, loader render.ResourceLoader) (*Sheet, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	sheet, err := FromImage(img, frameWidth, frameHeight, key, loader)
	if err != nil {
		return nil, fmt.Errorf("sprite sheet %s: %w", path, err)
	}
	return sheet, nil
}
