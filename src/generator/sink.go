package generator

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

const (
	imagesDir   = "images"
	metadataDir = "metadata"
)

// Sink 生成结果的输出目标
type Sink interface {
	WriteImage(ctx context.Context, edition int, png []byte) error
	WriteMetadata(ctx context.Context, edition int, meta []byte) error
	Close() error
}

func imageKey(edition int) string {
	return imagesDir + "/" + ImageName(edition)
}

func metadataKey(edition int) string {
	return metadataDir + "/" + strconv.Itoa(edition) + ".json"
}

// ZipSink 写入 zip 流: images/<n>.png, metadata/<n>.json
type ZipSink struct {
	zw *zip.Writer
}

func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w)}
}

func (s *ZipSink) WriteImage(_ context.Context, edition int, png []byte) error {
	// png 已压缩, 直接存储
	return s.write(imageKey(edition), png, zip.Store)
}

func (s *ZipSink) WriteMetadata(_ context.Context, edition int, meta []byte) error {
	return s.write(metadataKey(edition), meta, zip.Deflate)
}

func (s *ZipSink) write(name string, data []byte, method uint16) error {
	w, err := s.zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return errors.Wrapf(err, "failed on create zip entry %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "failed on write zip entry %s", name)
	}
	return nil
}

func (s *ZipSink) Close() error {
	return s.zw.Close()
}

// DirSink 写入本地目录, 布局与 ZipSink 相同
type DirSink struct {
	root string
}

func NewDirSink(root string) (*DirSink, error) {
	for _, d := range []string{imagesDir, metadataDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed on create output dir")
		}
	}
	return &DirSink{root: root}, nil
}

func (s *DirSink) WriteImage(_ context.Context, edition int, png []byte) error {
	return os.WriteFile(filepath.Join(s.root, filepath.FromSlash(imageKey(edition))), png, 0o644)
}

func (s *DirSink) WriteMetadata(_ context.Context, edition int, meta []byte) error {
	return os.WriteFile(filepath.Join(s.root, filepath.FromSlash(metadataKey(edition))), meta, 0o644)
}

func (s *DirSink) Close() error {
	return nil
}
