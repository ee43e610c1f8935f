package illustration

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"coloringbook/internal/config"
	"coloringbook/internal/logger"
	"coloringbook/internal/metrics"
	"coloringbook/internal/model"
	"coloringbook/internal/volc"
)

// ImageGenerator 图片服务客户端，*volc.ArkClient 实现了该接口
type ImageGenerator interface {
	GenerateImages(ctx context.Context, p volc.ImageGenParams) ([]string, error)
}

// OutcomeKind 单页生成结果类型
type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeSuccess
	// OutcomeCached 命中缓存，未调用服务
	OutcomeCached
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCached:
		return "cached"
	case OutcomeFatal:
		return "fatal"
	default:
		return "skipped"
	}
}

// Outcome 单页生成结果，Fatal 会终止整批
type Outcome struct {
	Kind  OutcomeKind
	Image model.GeneratedImage
	Err   error
}

// Generator 批量生成涂色页
type Generator struct {
	client      ImageGenerator
	configured  bool
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	cache       *cache.Cache
}

// NewGenerator 根据图片服务配置创建生成器
func NewGenerator(client ImageGenerator, cfg config.ImageConfig) *Generator {
	g := &Generator{
		client:      client,
		configured:  client != nil && cfg.Configured(),
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
	}
	if g.concurrency < 1 {
		g.concurrency = 1
	}
	if cfg.Interval > 0 {
		g.limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}
	if cfg.CacheTTL > 0 {
		g.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return g
}

// Configured 图片服务是否可用
func (g *Generator) Configured() bool {
	return g.configured
}

// Generate 为提示词生成图片，返回按页码升序的成功结果
// 欠费错误立即中止并返回 ErrBillingRequired，其余失败的页面被跳过
func (g *Generator) Generate(ctx context.Context, prompts []model.PagePrompt, character, title string) ([]model.GeneratedImage, error) {
	if !g.configured {
		return nil, ErrNotConfigured
	}
	reqs := BuildImageRequests(prompts, character, title)
	if len(reqs) == 0 {
		return nil, ErrNoImages
	}

	outcomes := g.fold(ctx, reqs)

	images := make([]model.GeneratedImage, 0, len(outcomes))
	for _, out := range outcomes {
		switch out.Kind {
		case OutcomeFatal:
			return nil, fmt.Errorf("%w: page %d: %v", ErrBillingRequired, out.Image.Page, out.Err)
		case OutcomeSuccess, OutcomeCached:
			images = append(images, out.Image)
		}
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

// fold 依次处理每一页，结果与 reqs 一一对应
// 出现 Fatal 后 context 被取消，尚未开始的页面不再调用服务
func (g *Generator) fold(ctx context.Context, reqs []ImageRequest) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, req := range reqs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				outcomes[i] = Outcome{Kind: OutcomeSkipped, Image: model.GeneratedImage{Page: req.Page}, Err: err}
				return nil
			}
			out := g.generatePage(egCtx, req)
			outcomes[i] = out
			metrics.ImagePageTotal.WithLabelValues(out.Kind.String()).Inc()
			if out.Kind == OutcomeFatal {
				return out.Err
			}
			return nil
		})
	}
	_ = eg.Wait()
	return outcomes
}

func (g *Generator) generatePage(ctx context.Context, req ImageRequest) Outcome {
	log := logger.FromContext(ctx).WithField("page", req.Page)
	skipped := func(err error) Outcome {
		log.WithError(err).Warn("coloring page skipped")
		return Outcome{Kind: OutcomeSkipped, Image: model.GeneratedImage{Page: req.Page}, Err: err}
	}

	if g.cache != nil {
		if v, ok := g.cache.Get(req.Prompt); ok {
			return Outcome{Kind: OutcomeCached, Image: model.GeneratedImage{Page: req.Page, URL: v.(string)}}
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return skipped(err)
		}
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	// 涂色页不带水印
	noWatermark := false
	urls, err := g.client.GenerateImages(callCtx, volc.ImageGenParams{Prompt: req.Prompt, Watermark: &noWatermark})
	metrics.ImageCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if volc.IsBillingError(err) {
			log.WithError(err).Error("image provider billing failure, aborting batch")
			return Outcome{Kind: OutcomeFatal, Image: model.GeneratedImage{Page: req.Page}, Err: err}
		}
		return skipped(err)
	}
	if len(urls) == 0 || urls[0] == "" {
		return skipped(volc.ErrNoImages)
	}

	if g.cache != nil {
		g.cache.SetDefault(req.Prompt, urls[0])
	}
	log.Debug("coloring page generated")
	return Outcome{Kind: OutcomeSuccess, Image: model.GeneratedImage{Page: req.Page, URL: urls[0]}}
}
