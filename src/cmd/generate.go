package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logging "github.com/feralaibot/Feral-Ai-website/base/logger"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/generator"
)

var generateFlags struct {
	layers   string
	recipe   string
	out      string
	s3Prefix string
	width    int
	height   int
	supply   int
	seed     int64
}

// GenerateCmd 离线生成集合, 输出到目录、zip 文件或 S3
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate a layered NFT collection.",
	Long:  "generate a layered NFT collection from a layers directory or zip, writing images/ and metadata/ to a directory, a zip file or s3.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if _, err := xzap.SetUp(logging.LogConf{ServiceName: "feral-generate", Mode: logging.ModeConsole, Level: "info", Encoding: "console"}); err != nil {
			return err
		}

		recipe := &generator.Recipe{}
		if generateFlags.recipe != "" {
			r, err := generator.LoadRecipe(generateFlags.recipe)
			if err != nil {
				return err
			}
			recipe = r
		}
		applyGenerateFlags(cmd, recipe)

		opts, err := recipe.Options()
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(generateFlags.layers, recipe.Width, recipe.Height)
		if err != nil {
			return err
		}

		sink, err := openSink(ctx, generateFlags.out, generateFlags.s3Prefix)
		if err != nil {
			return err
		}
		res, err := generator.New(catalog).Generate(ctx, opts, sink)
		if closeErr := sink.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}

		if res.Partial() {
			xzap.WithContext(ctx).Warn("collection is smaller than requested",
				zap.Int("requested", res.Requested), zap.Int("minted", res.Minted), zap.Int("attempts", res.Attempts))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"requested": res.Requested,
			"minted":    res.Minted,
			"attempts":  res.Attempts,
			"partial":   res.Partial(),
		})
	},
}

// applyGenerateFlags 命令行参数覆盖 recipe 中的同名项, recipe 未设置画布大小时使用参数默认值
func applyGenerateFlags(cmd *cobra.Command, recipe *generator.Recipe) {
	flags := cmd.Flags()
	if flags.Changed("supply") {
		recipe.Supply = generateFlags.supply
	}
	if flags.Changed("width") || recipe.Width <= 0 {
		recipe.Width = generateFlags.width
	}
	if flags.Changed("height") || recipe.Height <= 0 {
		recipe.Height = generateFlags.height
	}
	if flags.Changed("seed") {
		seed := generateFlags.seed
		recipe.Seed = &seed
	}
}

func loadCatalog(layers string, width, height int) (*generator.Catalog, error) {
	if strings.EqualFold(filepath.Ext(layers), ".zip") {
		data, err := os.ReadFile(layers)
		if err != nil {
			return nil, errors.Wrap(err, "failed on read layers zip")
		}
		return generator.LoadCatalogFromZip(bytes.NewReader(data), int64(len(data)), width, height)
	}
	return generator.LoadCatalogFromDir(layers, width, height)
}

type closingSink struct {
	generator.Sink
	file *os.File
}

func (s *closingSink) Close() error {
	err := s.Sink.Close()
	if closeErr := s.file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// openSink --s3-prefix 优先, 其次按 --out 的扩展名决定写 zip 文件还是目录
func openSink(ctx context.Context, out, s3Prefix string) (generator.Sink, error) {
	if s3Prefix != "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.S3.Bucket == "" {
			return nil, errors.New("s3 bucket is not configured")
		}
		client, err := generator.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return generator.NewS3Sink(client, cfg.S3.Bucket, filepath.ToSlash(filepath.Join(cfg.S3.Prefix, s3Prefix)))
	}

	if strings.EqualFold(filepath.Ext(out), ".zip") {
		f, err := os.Create(out)
		if err != nil {
			return nil, errors.Wrap(err, "failed on create output zip")
		}
		return &closingSink{Sink: generator.NewZipSink(f), file: f}, nil
	}
	return generator.NewDirSink(out)
}

func init() {
	flags := GenerateCmd.Flags()
	flags.StringVar(&generateFlags.layers, "layers", "./layers", "layers directory or .zip archive")
	flags.StringVar(&generateFlags.recipe, "recipe", "", "recipe file (yaml or json)")
	flags.StringVar(&generateFlags.out, "out", "./build", "output directory or .zip file")
	flags.StringVar(&generateFlags.s3Prefix, "s3-prefix", "", "upload to the configured s3 bucket under this prefix")
	flags.IntVar(&generateFlags.width, "width", 1024, "canvas width")
	flags.IntVar(&generateFlags.height, "height", 1024, "canvas height")
	flags.IntVar(&generateFlags.supply, "supply", 0, "number of editions, overrides the recipe")
	flags.Int64Var(&generateFlags.seed, "seed", 0, "random seed, overrides the recipe")
	rootCmd.AddCommand(GenerateCmd)
}
