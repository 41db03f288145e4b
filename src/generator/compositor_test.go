package generator

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositorRender(t *testing.T) {
	fsys := mapFS(map[string][]byte{
		"bg.png":    solidPNG(t, 2, 2, color.NRGBA{B: 255, A: 255}),
		"top.png":   solidPNG(t, 2, 2, color.NRGBA{R: 255, A: 255}),
		"clear.png": solidPNG(t, 2, 2, color.NRGBA{}),
		"big.png":   solidPNG(t, 3, 3, color.NRGBA{A: 255}),
	})
	comp := NewCompositor(fsys)

	t.Run("later layers draw on top", func(t *testing.T) {
		img, err := comp.Render([]AssetRef{"bg.png", "top.png"}, 2, 2)
		require.NoError(t, err)
		r, g, b, a := img.At(0, 0).RGBA()
		assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
	})

	t.Run("transparent layer keeps below", func(t *testing.T) {
		img, err := comp.Render([]AssetRef{"bg.png", "clear.png", ""}, 2, 2)
		require.NoError(t, err)
		_, _, b, a := img.At(1, 1).RGBA()
		assert.Equal(t, uint32(0xffff), b)
		assert.Equal(t, uint32(0xffff), a)
	})

	t.Run("empty stack is transparent", func(t *testing.T) {
		img, err := comp.Render(nil, 2, 2)
		require.NoError(t, err)
		_, _, _, a := img.At(0, 0).RGBA()
		assert.Zero(t, a)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := comp.Render([]AssetRef{"big.png"}, 2, 2)
		assert.Error(t, err)
	})

	t.Run("missing asset", func(t *testing.T) {
		_, err := comp.Render([]AssetRef{"nope.png"}, 2, 2)
		assert.Error(t, err)
	})

	t.Run("png encoding", func(t *testing.T) {
		data, err := comp.RenderPNG([]AssetRef{"bg.png"}, 2, 2)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 2, img.Bounds().Dx())
	})
}
