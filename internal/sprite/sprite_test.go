package sprite

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"chosenoffset.com/spritewalk/internal/render/rendertest"
)

var keyGray = color.NRGBA{0xC6, 0xC6, 0xC4, 0xFF}

func TestParseColorKey(t *testing.T) {
	k, err := ParseColorKey("#C6C6C4", DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, ColorKey{R: 0xC6, G: 0xC6, B: 0xC4, Threshold: DefaultThreshold}, k)
	assert.Equal(t, "#C6C6C4", k.Hex())

	k, err = ParseColorKey("ff00FF", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "#FF00FF", k.Hex())

	for _, bad := range []string{"", "#FFF", "#GGGGGG", "#1234567"} {
		_, err := ParseColorKey(bad, 0.1)
		assert.Error(t, err, "expected error for %q", bad)
	}

	_, err = ParseColorKey("#FFFFFF", -1)
	assert.Error(t, err)
}

func TestColorKeyMatches(t *testing.T) {
	k, err := ParseColorKey("#C6C6C4", DefaultThreshold)
	require.NoError(t, err)

	assert.True(t, k.Matches(keyGray))
	// Alpha is ignored.
	assert.True(t, k.Matches(color.NRGBA{0xC6, 0xC6, 0xC4, 0x10}))
	// Up to two 8-bit steps per channel are below 0.01, three are not.
	assert.True(t, k.Matches(color.NRGBA{0xC7, 0xC6, 0xC4, 0xFF}))
	assert.True(t, k.Matches(color.NRGBA{0xC8, 0xC4, 0xC6, 0xFF}))
	assert.False(t, k.Matches(color.NRGBA{0xC9, 0xC6, 0xC4, 0xFF}))
	assert.False(t, k.Matches(color.NRGBA{0xC6, 0xC6, 0xC1, 0xFF}))
	assert.False(t, k.Matches(color.Black))

	exact := ColorKey{R: 1, G: 2, B: 3, Threshold: 0}
	assert.False(t, exact.Matches(color.NRGBA{1, 2, 3, 255}), "zero threshold keys nothing")
}

func TestApplyColorKey(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, keyGray)
	src.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})

	k, err := ParseColorKey("#C6C6C4", DefaultThreshold)
	require.NoError(t, err)
	out := ApplyColorKey(src, k)

	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(1, 0))
	// Source is untouched.
	assert.Equal(t, keyGray, src.NRGBAAt(0, 0))
}

func TestSheetGrid(t *testing.T) {
	img := rendertest.NewImage(64, 48)
	s, err := NewSheet(img, 16, 16, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Columns)
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 12, s.FrameCount())

	assert.Equal(t, image.Rect(0, 0, 16, 16), s.FrameRect(0))
	assert.Equal(t, image.Rect(48, 0, 64, 16), s.FrameRect(3))
	assert.Equal(t, image.Rect(16, 16, 32, 32), s.FrameRect(5))
	assert.Equal(t, image.Rect(48, 32, 64, 48), s.FrameRect(11))

	// Wraps around.
	assert.Equal(t, s.FrameRect(0), s.FrameRect(12))
	assert.Equal(t, s.FrameRect(11), s.FrameRect(-1))

	assert.Equal(t, image.Rect(16, 16, 32, 32), s.Frame(5).Bounds())
}

func TestSheetIgnoresPartialFrames(t *testing.T) {
	s, err := NewSheet(rendertest.NewImage(70, 20), 16, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Columns)
	assert.Equal(t, 1, s.Rows)
}

func TestNewSheetRejectsBadFrames(t *testing.T) {
	img := rendertest.NewImage(32, 32)

	_, err := NewSheet(img, 0, 16, nil)
	assert.Error(t, err)

	_, err = NewSheet(img, 64, 16, nil)
	assert.Error(t, err)

	_, err = NewSheet(nil, 16, 16, nil)
	assert.Error(t, err)
}

func writeSheet(t *testing.T, name string, encode func(f *os.File, img image.Image) error) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, keyGray)
		}
	}
	img.SetNRGBA(3, 3, color.NRGBA{0, 0, 255, 255})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
	return path
}

func TestLoadAppliesColorKey(t *testing.T) {
	path := writeSheet(t, "sheet.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	k, err := ParseColorKey("#C6C6C4", DefaultThreshold)
	require.NoError(t, err)

	loader := &rendertest.Loader{}
	s, err := Load(path, 16, 16, &k, loader)
	require.NoError(t, err)

	assert.Equal(t, 2, s.FrameCount())
	require.Len(t, loader.Uploaded, 1)
	up := loader.Uploaded[0].(*image.NRGBA)
	assert.Equal(t, uint8(0), up.NRGBAAt(0, 0).A)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, up.NRGBAAt(3, 3))
	assert.Equal(t, &k, s.ColorKey)
}

func TestLoadBMP(t *testing.T) {
	path := writeSheet(t, "sheet.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	loader := &rendertest.Loader{}
	s, err := Load(path, 16, 16, nil, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, s.FrameCount())
}

func TestLoadErrors(t *testing.T) {
	loader := &rendertest.Loader{}

	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), 16, 16, nil, loader)
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = Load(garbage, 16, 16, nil, loader)
	assert.Error(t, err)

	path := writeSheet(t, "sheet.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	_, err = Load(path, 64, 64, nil, loader)
	assert.Error(t, err)
	assert.Empty(t, loader.Uploaded, "invalid frames must not upload")
}
