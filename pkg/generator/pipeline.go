package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/adapters"
	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/imgutil"
	"github.com/shouni/gemini-interior-kit/pkg/prompt"
	"github.com/shouni/gemini-interior-kit/pkg/resolver"
	"github.com/shouni/gemini-interior-kit/pkg/usage"
)

var (
	// DefaultTextImagePriority は画像を出力できるマルチモーダルモデルの優先順です。
	DefaultTextImagePriority = []string{
		"gemini-3-pro-image-preview",
		"gemini-2.5-flash-image",
		"gemini-2.5-flash-image-preview",
		"gemini-2.0-flash-preview-image-generation",
	}
	// DefaultImagenPriority は専用画像生成モデルの優先順です。
	DefaultImagenPriority = []string{
		"imagen-4.0-generate-001",
		"imagen-4.0-fast-generate-001",
		"imagen-3.0-generate-002",
	}
	// DefaultTextPriority はプロンプト作成・相談に使うテキストモデルの優先順です。
	DefaultTextPriority = []string{
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-1.5-pro",
	}
)

// Pipeline はモデル解決 → ペイロード組み立て → 呼び出し → 応答抽出 → 利用集計 を
// 1リクエストごとに順番に実行します。内部で並列化やリトライはしません。
type Pipeline struct {
	core  adapters.ImageGeneratorCore
	stats *usage.Stats

	textImagePriority []string
	imagenPriority    []string
	textPriority      []string
	sampleCount       int
	logger            *slog.Logger
}

// Option は Pipeline の生成オプションです。
type Option func(*Pipeline)

// WithTextImagePriority は直接生成フローで使うモデルの優先順を変更します。
func WithTextImagePriority(ids []string) Option {
	return func(p *Pipeline) {
		if len(ids) > 0 {
			p.textImagePriority = ids
		}
	}
}

// WithImagenPriority は2段階フローの画像生成モデルの優先順を変更します。
func WithImagenPriority(ids []string) Option {
	return func(p *Pipeline) {
		if len(ids) > 0 {
			p.imagenPriority = ids
		}
	}
}

// WithTextPriority はプロンプト作成・相談用モデルの優先順を変更します。
func WithTextPriority(ids []string) Option {
	return func(p *Pipeline) {
		if len(ids) > 0 {
			p.textPriority = ids
		}
	}
}

// WithSampleCount は専用画像生成APIに要求する枚数です。結果として使うのは先頭の1枚だけです。
func WithSampleCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.sampleCount = n
		}
	}
}

// WithLogger はロガーを差し替えます。
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline は依存関係を注入して Pipeline を初期化します。
func NewPipeline(core adapters.ImageGeneratorCore, stats *usage.Stats, opts ...Option) (*Pipeline, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageGeneratorCore) is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats (*usage.Stats) is required")
	}

	p := &Pipeline{
		core:              core,
		stats:             stats,
		textImagePriority: DefaultTextImagePriority,
		imagenPriority:    DefaultImagenPriority,
		textPriority:      DefaultTextPriority,
		sampleCount:       1,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Generate はリクエストの Flow に応じて合成画像を生成します。
//
// サービスが応答した後の失敗 (ErrEmptyResponse, ErrNoImageProduced) では、
// 返ってきたテキストを表示できるように結果とエラーの両方を返します。
// 利用回数は画像が得られたときだけ加算します。
func (p *Pipeline) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if !req.Style.Valid() {
		return nil, domain.ErrUnknownStyle
	}

	switch req.Flow {
	case "", domain.FlowDirect:
		return p.generateDirect(ctx, req)
	case domain.FlowDescribeThenRender:
		return p.generateTwoStage(ctx, req)
	default:
		return nil, domain.ErrUnknownFlow
	}
}

func (p *Pipeline) generateDirect(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	parts, base, err := p.prepareImages(req.Base, req.Auxiliary)
	if err != nil {
		return nil, err
	}

	model, err := p.resolve(ctx, adapters.CapabilityGenerateContent, p.textImagePriority)
	if err != nil {
		return nil, err
	}

	aspect := string(imgutil.ResolveAspectRatio(req.AspectRatio, base.Width, base.Height))
	parts = append(parts, genai.NewPartFromText(prompt.Compose(req.Style, req.Note, req.IncludeMaterials)))

	p.logger.InfoContext(ctx, "合成リクエストを準備しました",
		"model", model, "images", len(parts)-1, "style", req.Style, "aspect_ratio", aspect)

	out, err := p.core.GenerateContent(ctx, model, parts, adapters.GenerateOptions{
		AspectRatio: aspect,
		Seed:        req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini合成生成エラー: %w", err)
	}

	return p.finish(ctx, req.AccessCode, out, &domain.GenerationResult{Model: model, AspectRatio: aspect})
}

// generateTwoStage はテキストモデルにプロンプトを書かせ、専用画像生成APIで描画します。
// 素材リストが必要な場合は描画の前に取得し、描画が成功したときだけ課金されるようにします。
func (p *Pipeline) generateTwoStage(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	parts, base, err := p.prepareImages(req.Base, req.Auxiliary)
	if err != nil {
		return nil, err
	}

	textModel, err := p.resolve(ctx, adapters.CapabilityGenerateContent, p.textPriority)
	if err != nil {
		return nil, err
	}

	described, err := p.core.GenerateContent(ctx, textModel, append(parts, genai.NewPartFromText(prompt.Describe(req.Style, req.Note))),
		adapters.GenerateOptions{TextOnly: true, Seed: req.Seed})
	if err != nil {
		return nil, fmt.Errorf("プロンプト作成エラー: %w", err)
	}
	renderPrompt := strings.TrimSpace(Extract(described).Text)
	if renderPrompt == "" {
		return &domain.GenerationResult{Model: textModel}, fmt.Errorf("プロンプトが空でした: %w", domain.ErrEmptyResponse)
	}

	var materials string
	if req.IncludeMaterials {
		listed, err := p.core.GenerateContent(ctx, textModel, []*genai.Part{genai.NewPartFromText(prompt.MaterialsFor(renderPrompt))},
			adapters.GenerateOptions{TextOnly: true})
		if err != nil {
			return nil, fmt.Errorf("素材リスト作成エラー: %w", err)
		}
		materials = Extract(listed).Text
	}

	imagenModel, err := p.resolve(ctx, adapters.CapabilityPredict, p.imagenPriority)
	if err != nil {
		return nil, err
	}
	aspect := string(imgutil.ResolveAspectRatio(req.AspectRatio, base.Width, base.Height))

	images, err := p.core.GenerateImages(ctx, imagenModel, renderPrompt, adapters.ImageOptions{
		AspectRatio: aspect,
		SampleCount: p.sampleCount,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成APIエラー: %w", err)
	}

	if materials != "" {
		images = append(images, domain.TextPart(materials))
	}
	return p.finish(ctx, req.AccessCode, images, &domain.GenerationResult{
		Model:       imagenModel,
		Prompt:      renderPrompt,
		AspectRatio: aspect,
	})
}

// prepareImages はベース画像、参照画像の順にパーツ化します。
// どれか1枚でもデコードできなければ、サービスを呼ぶ前に ErrInvalidImage で失敗します。
func (p *Pipeline) prepareImages(base domain.ImageBlob, aux []domain.ImageBlob) ([]*genai.Part, *imgutil.Normalized, error) {
	basePart, baseNorm, err := p.core.PrepareImagePart(base)
	if err != nil {
		return nil, nil, fmt.Errorf("ベース画像を読み込めません: %w", err)
	}

	parts := make([]*genai.Part, 0, len(aux)+2)
	parts = append(parts, basePart)
	for i, blob := range aux {
		part, _, err := p.core.PrepareImagePart(blob)
		if err != nil {
			return nil, nil, fmt.Errorf("参照画像 #%d を読み込めません: %w", i+1, err)
		}
		parts = append(parts, part)
	}
	return parts, baseNorm, nil
}

// resolve はカタログを毎回取得し直してからモデルを決めます。
func (p *Pipeline) resolve(ctx context.Context, capability adapters.Capability, priority []string) (string, error) {
	catalog, err := p.core.Catalog(ctx, capability)
	if err != nil {
		return "", err
	}
	model, err := resolver.Resolve(priority, catalog)
	if err != nil {
		p.logger.WarnContext(ctx, "利用可能なモデルがありません", "capability", capability, "catalog_size", len(catalog))
		return "", err
	}
	p.logger.DebugContext(ctx, "モデルを決定しました", "capability", capability, "model", model)
	return model, nil
}

// finish は応答パーツから結果を作り、成功時だけ利用回数を加算します。
func (p *Pipeline) finish(ctx context.Context, code string, parts []domain.Part, res *domain.GenerationResult) (*domain.GenerationResult, error) {
	if len(parts) == 0 {
		p.logger.WarnContext(ctx, "サービスの応答が空でした", "model", res.Model)
		return res, domain.ErrEmptyResponse
	}

	ex := Extract(parts)
	res.Image = ex.Image
	res.Text = ex.Text
	res.Success = ex.Success
	if !ex.Success {
		p.logger.WarnContext(ctx, "画像が生成されませんでした", "model", res.Model, "text_len", len(ex.Text))
		return res, domain.ErrNoImageProduced
	}

	p.stats.Record(code)
	p.logger.InfoContext(ctx, "合成画像を生成しました", "model", res.Model, "bytes", len(ex.Image.Data))
	return res, nil
}
