package generator

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/base/metrics"
)

// Options 一次生成任务的参数
type Options struct {
	Supply    int
	Unique    bool
	Rules     RuleSet
	Overrides WeightOverrides
	Seed      *int64 // 为 nil 时使用随机种子
	Metadata  MetadataOptions
}

// Result 生成结果, Minted < Requested 表示部分成功
type Result struct {
	Requested int             `json:"requested"`
	Minted    int             `json:"minted"`
	Attempts  int             `json:"attempts"`
	Items     []GeneratedItem `json:"items"`
}

func (r *Result) Partial() bool {
	return r.Minted < r.Requested
}

// inputError 目录或参数不合法, 生成没有开始
type inputError struct {
	err error
}

func (e *inputError) Error() string { return e.err.Error() }

func (e *inputError) Unwrap() error { return e.err }

// IsInputError 错误来自图层目录, 规则或参数 (而不是输出端)
func IsInputError(err error) bool {
	var ie *inputError
	return errors.As(err, &ie) || errors.Is(err, ErrForceIntegrity)
}

// Generator 基于图层目录生成集合
type Generator struct {
	catalog *Catalog
}

func New(catalog *Catalog) *Generator {
	return &Generator{catalog: catalog}
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

func (g *Generator) validate(opts Options) (*Catalog, error) {
	c := g.catalog
	if c == nil || len(c.Layers) == 0 {
		return nil, errors.New("catalog has no layers")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, errors.Errorf("invalid canvas %dx%d", c.Width, c.Height)
	}
	for _, l := range c.Layers {
		if len(l.Traits) == 0 {
			return nil, errors.Errorf("layer %q has no traits", l.Name)
		}
	}
	if opts.Supply <= 0 {
		return nil, errors.Errorf("supply must be positive, got %d", opts.Supply)
	}

	if len(opts.Overrides) > 0 {
		var err error
		if c, err = c.WithOverrides(opts.Overrides); err != nil {
			return nil, err
		}
	}
	if err := ValidateRules(c, opts.Rules); err != nil {
		return nil, err
	}
	return c, nil
}

// Sample 只做采样和排名, 不绘制图片
func (g *Generator) Sample(ctx context.Context, opts Options) (*Result, []Layer, error) {
	c, err := g.validate(opts)
	if err != nil {
		return nil, nil, &inputError{err: err}
	}
	layers := c.Sorted()

	sampled, err := GenerateUniqueSet(ctx, newRand(opts.Seed), layers, opts.Rules, opts.Supply, opts.Unique)
	if err != nil {
		return nil, nil, err
	}
	metrics.GenerationAttempts.WithLabelValues("accepted").Add(float64(sampled.Minted))
	metrics.GenerationAttempts.WithLabelValues("failed").Add(float64(sampled.Failed))
	metrics.GenerationAttempts.WithLabelValues("duplicate").Add(float64(sampled.Duplicates))

	return &Result{
		Requested: sampled.Requested,
		Minted:    sampled.Minted,
		Attempts:  sampled.Attempts,
		Items:     Rank(sampled.Items),
	}, layers, nil
}

// Generate 采样, 排名, 绘制并写入 sink; sink 由调用方关闭
func (g *Generator) Generate(ctx context.Context, opts Options, sink Sink) (*Result, error) {
	start := time.Now()
	res, err := g.generate(ctx, opts, sink)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	status := "complete"
	switch {
	case err != nil:
		status = "error"
	case res.Partial():
		status = "partial"
	}
	metrics.GenerationRuns.WithLabelValues(status).Inc()
	return res, err
}

func (g *Generator) generate(ctx context.Context, opts Options, sink Sink) (*Result, error) {
	res, layers, err := g.Sample(ctx, opts)
	if err != nil {
		return nil, err
	}
	if res.Partial() {
		xzap.WithContext(ctx).Warn("generation exhausted attempt budget",
			zap.Int("requested", res.Requested),
			zap.Int("minted", res.Minted),
			zap.Int("attempts", res.Attempts))
	}

	comp := NewCompositor(g.catalog.Assets)
	for _, item := range res.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stack := make([]AssetRef, 0, len(layers))
		for _, l := range layers {
			t, _ := l.Trait(item.Selection[l.Name])
			stack = append(stack, t.Asset)
		}
		img, err := comp.RenderPNG(stack, g.catalog.Width, g.catalog.Height)
		if err != nil {
			return nil, errors.Wrapf(err, "failed on render edition %d", item.Edition)
		}
		if err := sink.WriteImage(ctx, item.Edition, img); err != nil {
			return nil, errors.Wrapf(err, "failed on write image %d", item.Edition)
		}

		meta, err := json.MarshalIndent(BuildMetadata(item, layers, opts.Metadata), "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed on marshal metadata")
		}
		if err := sink.WriteMetadata(ctx, item.Edition, meta); err != nil {
			return nil, errors.Wrapf(err, "failed on write metadata %d", item.Edition)
		}
	}
	return res, nil
}
