package labels

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCode128PNG(t *testing.T) {
	data, err := RenderCode128PNG("4006381333931", 300, 80)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestRenderCode128PNG_Defaults(t *testing.T) {
	data, err := RenderCode128PNG("ABC-123", 0, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestRenderCode128PNG_GrowsToFit(t *testing.T) {
	data, err := RenderCode128PNG("a-very-long-barcode-value-0123456789", 10, 20)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 10)
}

func TestRenderCode128PNG_Empty(t *testing.T) {
	_, err := RenderCode128PNG("   ", 300, 80)
	assert.Error(t, err)
}
