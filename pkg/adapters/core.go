package adapters

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/imgutil"
)

// ModelService は genai.Models のうち本パッケージが使うメソッドの抽象です。
// *genai.Models がそのまま満たします。
type ModelService interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	All(ctx context.Context) iter.Seq2[*genai.Model, error]
}

// ImageGeneratorCore はパイプラインが利用するバックエンド操作をまとめたインターフェースです。
type ImageGeneratorCore interface {
	CatalogSource
	PrepareImagePart(blob domain.ImageBlob) (*genai.Part, *imgutil.Normalized, error)
	GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts GenerateOptions) ([]domain.Part, error)
	GenerateImages(ctx context.Context, model string, prompt string, opts ImageOptions) ([]domain.Part, error)
}

// GeminiImageCore は genai SDK との通信と、画像・応答の変換を担当するコンポーネントです。
type GeminiImageCore struct {
	models ModelService
	maxDim int
	logger *slog.Logger
}

// CoreOption は GeminiImageCore の生成オプションです。
type CoreOption func(*GeminiImageCore)

// WithMaxDimension は送信前に縮小する長辺の上限を変更します。
func WithMaxDimension(px int) CoreOption {
	return func(c *GeminiImageCore) {
		if px > 0 {
			c.maxDim = px
		}
	}
}

// WithLogger はロガーを差し替えます。
func WithLogger(l *slog.Logger) CoreOption {
	return func(c *GeminiImageCore) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore のインスタンスを生成します。
func NewGeminiImageCore(models ModelService, opts ...CoreOption) (*GeminiImageCore, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ModelService) is required")
	}
	c := &GeminiImageCore{
		models: models,
		maxDim: imgutil.DefaultMaxDimension,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PrepareImagePart は画像を正規化して genai.Part (InlineData) に変換します。
// デコードできない画像は domain.ErrInvalidImage を返します。
func (c *GeminiImageCore) PrepareImagePart(blob domain.ImageBlob) (*genai.Part, *imgutil.Normalized, error) {
	if len(blob.Data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidImage)
	}
	norm, err := imgutil.Normalize(blob.Data, c.maxDim)
	if err != nil {
		return nil, nil, err
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: norm.MIMEType,
			Data:     norm.Data,
		},
	}, norm, nil
}

// PartsFromResponse は Gemini の応答をタグ付きの domain.Part 列に変換します。
// 最初の候補 (Candidate) のみを利用します。思考パーツは含めません。
func PartsFromResponse(resp *genai.GenerateContentResponse) []domain.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil
	}

	var parts []domain.Part
	for _, p := range candidate.Content.Parts {
		switch {
		case p == nil || p.Thought:
			continue
		case p.InlineData != nil && len(p.InlineData.Data) > 0:
			parts = append(parts, domain.ImagePart(p.InlineData.Data, p.InlineData.MIMEType))
		case p.Text != "":
			parts = append(parts, domain.TextPart(p.Text))
		}
	}
	return parts
}

// PartsFromImages は専用画像生成APIの応答を画像パーツ列に変換します。
func PartsFromImages(resp *genai.GenerateImagesResponse) []domain.Part {
	if resp == nil {
		return nil
	}
	var parts []domain.Part
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := gi.Image.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, domain.ImagePart(gi.Image.ImageBytes, mimeType))
	}
	return parts
}

// abnormalFinish は安全フィルター等で異常終了した場合にその理由を返します。
func abnormalFinish(resp *genai.GenerateContentResponse) (genai.FinishReason, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", false
	}
	switch r := resp.Candidates[0].FinishReason; r {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return r, false
	default:
		return r, true
	}
}

// seedToPtrInt32 は domain の *int64 を Gemini SDK 用の *int32 に変換します。
// int32 の範囲を超える値は上位ビットが切り捨てられますが、シードとしては問題ありません。
func seedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	val := int32(*seed)
	return &val
}
