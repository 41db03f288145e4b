package generator

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func zipOf(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func mapFS(files map[string][]byte) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return fsys
}

func trait(layer, name string, weight float64) Trait {
	return Trait{Layer: layer, Name: name, Weight: weight, IsNone: name == "None"}
}

// testLayers Background(2) / Body(2) / Eyes(3, 含 None)
func testLayers() []Layer {
	return []Layer{
		{Name: "Background", Order: 0, Traits: []Trait{trait("Background", "Blue", 50), trait("Background", "Red", 50)}},
		{Name: "Body", Order: 1, Traits: []Trait{trait("Body", "Cat", 50), trait("Body", "Ghost", 50)}},
		{Name: "Eyes", Order: 2, Traits: []Trait{trait("Eyes", "Laser", 30), trait("Eyes", "Sleepy", 30), trait("Eyes", "None", 0)}},
	}
}
