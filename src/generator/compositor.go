package generator

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io/fs"

	"github.com/pkg/errors"
)

// Compositor 按图层顺序将素材 alpha 叠加到透明画布上
// 已解码的素材按路径缓存, 一个 Compositor 只在单个生成任务内使用
type Compositor struct {
	assets fs.FS
	cache  map[AssetRef]image.Image
}

func NewCompositor(assets fs.FS) *Compositor {
	return &Compositor{
		assets: assets,
		cache:  make(map[AssetRef]image.Image),
	}
}

// Render 依次绘制 stack 中的素材, 空引用跳过
func (c *Compositor) Render(stack []AssetRef, width, height int) (image.Image, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, ref := range stack {
		if ref == "" {
			continue
		}
		src, err := c.load(ref)
		if err != nil {
			return nil, err
		}
		b := src.Bounds()
		if b.Dx() != width || b.Dy() != height {
			return nil, errors.Errorf("asset %s is %dx%d, canvas is %dx%d", ref, b.Dx(), b.Dy(), width, height)
		}
		draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Over)
	}
	return canvas, nil
}

// RenderPNG 绘制并编码为 png
func (c *Compositor) RenderPNG(stack []AssetRef, width, height int) ([]byte, error) {
	img, err := c.Render(stack, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed on encode png")
	}
	return buf.Bytes(), nil
}

func (c *Compositor) load(ref AssetRef) (image.Image, error) {
	if img, ok := c.cache[ref]; ok {
		return img, nil
	}
	if c.assets == nil {
		return nil, errors.Errorf("no asset source for %s", ref)
	}

	f, err := c.assets.Open(string(ref))
	if err != nil {
		return nil, errors.Wrapf(err, "failed on open asset %s", ref)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on decode asset %s", ref)
	}
	c.cache[ref] = img
	return img, nil
}
