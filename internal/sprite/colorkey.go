package sprite

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
)

// DefaultThreshold keys out colors up to two 8-bit steps from the key on
// every channel (0.01 * 255 = 2.55).
const DefaultThreshold = 0.01

// ColorKey marks a color that is rendered as transparent.
type ColorKey struct {
	R, G, B uint8
	// Threshold is the largest per-channel difference, on a 0..1 scale,
	// that still counts as the key color (exclusive).
	Threshold float64
}

// ParseColorKey builds a ColorKey from "#RRGGBB" or "RRGGBB".
func ParseColorKey(hex string, threshold float64) (ColorKey, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return ColorKey{}, fmt.Errorf("invalid color key %q: want 6 hex digits", hex)
	}

	var rgb [3]uint8
	for i, name := range []string{"red", "green", "blue"} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return ColorKey{}, fmt.Errorf("invalid %s component in color key %q: %w", name, hex, err)
		}
		rgb[i] = uint8(v)
	}

	if threshold < 0 {
		return ColorKey{}, fmt.Errorf("color key threshold must not be negative, got %v", threshold)
	}

	return ColorKey{R: rgb[0], G: rgb[1], B: rgb[2], Threshold: threshold}, nil
}

// Hex returns the key color as "#RRGGBB".
func (k ColorKey) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", k.R, k.G, k.B)
}

// Matches reports whether c is close enough to the key to be transparent.
// Alpha is ignored.
func (k ColorKey) Matches(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return maxDiff(n.R, k.R, maxDiff(n.G, k.G, maxDiff(n.B, k.B, 0))) < k.Threshold
}

func maxDiff(a, b uint8, cur float64) float64 {
	d := float64(a) - float64(b)
	if d < 0 {
		d = -d
	}
	d /= 255
	if d > cur {
		return d
	}
	return cur
}

// ApplyColorKey returns a copy of src where every pixel matching key is
// fully transparent. The result keeps src's bounds.
func ApplyColorKey(src image.Image, key ColorKey) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if key.Matches(dst.NRGBAAt(x, y)) {
				dst.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return dst
}
