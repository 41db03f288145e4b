package generator

import (
	"archive/zip"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultTraitWeight 文件名未携带 #<n> 时的默认权重
	DefaultTraitWeight = 60
	MaxTraitWeight     = 100
	rootLayerName      = "Layer"
)

var (
	ErrNoImages = errors.New("no png images found")

	orderPrefixRe  = regexp.MustCompile(`^\d+[_\-\s]?`)
	weightSuffixRe = regexp.MustCompile(`^(.*?)#(\d+)$`)
)

// LoadCatalogFromZip 从 zip 压缩包加载图层目录, 目录 -> 图层, png 文件 -> 属性
func LoadCatalogFromZip(r io.ReaderAt, size int64, width, height int) (*Catalog, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed on open layers archive")
	}
	return LoadCatalog(zr, width, height)
}

// LoadCatalogFromDir 从本地目录加载图层目录
func LoadCatalogFromDir(root string, width, height int) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed on stat layers dir")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	return LoadCatalog(os.DirFS(root), width, height)
}

// LoadCatalog 遍历文件系统构建图层目录
// 每张图片必须能够解码且尺寸等于画布尺寸
func LoadCatalog(fsys fs.FS, width, height int) (*Catalog, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid canvas %dx%d", width, height)
	}

	byFolder := make(map[string][]string)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isPNG(p) {
			return nil
		}
		// 忽略 macOS 打包带入的资源文件
		if strings.HasPrefix(p, "__MACOSX/") || strings.HasPrefix(path.Base(p), "._") {
			return nil
		}
		folder := path.Base(path.Dir(p))
		if folder == "." || folder == "/" {
			folder = rootLayerName
		}
		byFolder[folder] = append(byFolder[folder], p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on walk layers")
	}
	if len(byFolder) == 0 {
		return nil, ErrNoImages
	}

	folders := make([]string, 0, len(byFolder))
	for f := range byFolder {
		folders = append(folders, f)
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return naturalLess(folders[i], folders[j])
	})

	catalog := &Catalog{Width: width, Height: height, Assets: fsys}
	names := make(map[string]string, len(folders))
	for order, folder := range folders {
		files := byFolder[folder]
		name := layerNameFromFolder(folder)
		if prev, ok := names[name]; ok {
			return nil, errors.Errorf("folders %q and %q both map to layer %q", prev, folder, name)
		}
		names[name] = folder
		sort.SliceStable(files, func(i, j int) bool {
			return naturalLess(path.Base(files[i]), path.Base(files[j]))
		})

		layer := Layer{Name: name, Order: order}
		for _, f := range files {
			if err := checkImageSize(fsys, f, width, height); err != nil {
				return nil, err
			}
			traitName, weight := parseTraitFileName(path.Base(f))
			layer.Traits = append(layer.Traits, Trait{
				Layer:  layer.Name,
				Name:   traitName,
				Weight: weight,
				IsNone: strings.EqualFold(traitName, "none"),
				Asset:  AssetRef(f),
			})
		}
		catalog.Layers = append(catalog.Layers, layer)
	}
	return catalog, nil
}

func isPNG(p string) bool {
	return strings.EqualFold(path.Ext(p), ".png")
}

func checkImageSize(fsys fs.FS, p string, width, height int) error {
	f, err := fsys.Open(p)
	if err != nil {
		return errors.Wrapf(err, "failed on open %s", p)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return errors.Wrapf(err, "failed on decode %s", p)
	}
	if cfg.Width != width || cfg.Height != height {
		return errors.Errorf("all images must be %dx%d. %s is %dx%d", width, height, p, cfg.Width, cfg.Height)
	}
	return nil
}

// layerNameFromFolder 去掉 "01_" / "2-" / "3 " 之类的排序前缀
func layerNameFromFolder(folder string) string {
	name := strings.TrimSpace(orderPrefixRe.ReplaceAllString(folder, ""))
	if name == "" {
		return folder
	}
	return name
}

// parseTraitFileName "Red Eyes#25.png" -> ("Red Eyes", 25)
// 未带权重时 None 为 0, 其它为 DefaultTraitWeight; 权重截断到 [0, 100]
func parseTraitFileName(file string) (string, float64) {
	base := file[:len(file)-len(path.Ext(file))]

	if m := weightSuffixRe.FindStringSubmatch(base); m != nil {
		name := strings.TrimSpace(m[1])
		w, err := strconv.Atoi(m[2])
		if err == nil && name != "" {
			if w > MaxTraitWeight {
				w = MaxTraitWeight
			}
			return name, float64(w)
		}
	}

	name := strings.TrimSpace(base)
	if strings.EqualFold(name, "none") {
		return name, 0
	}
	return name, DefaultTraitWeight
}

// naturalLess 大小写不敏感且数字按数值比较: "2_Eyes" < "10_Hat"
func naturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[si:i], "0")
			nb := strings.TrimLeft(b[sj:j], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
