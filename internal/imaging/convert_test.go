package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 3, color.RGBA{R: 27, G: 153, B: 139, A: 255})
	}
	return img
}

func TestToPNGKeepsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))

	out, err := ToPNG(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), out)
}

func TestToPNGConvertsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), nil))

	out, err := ToPNG(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, IsPNG(out))
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}

func TestToWebPRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))

	out, err := ToWebP(buf.Bytes(), DefaultWebPQuality)
	require.NoError(t, err)
	assert.True(t, IsWebP(out))

	img, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
	_, err = Decode([]byte("RIFF0000WEBPgarbage"))
	assert.Error(t, err)
}
