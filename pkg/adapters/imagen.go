package adapters

import (
	"context"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

// ImageOptions は専用画像生成呼び出しのオプションです。
// Gemini API バックエンドはこの呼び出しでシード指定を受け付けないため、項目を持ちません。
type ImageOptions struct {
	AspectRatio string
	SampleCount int
}

// GenerateImages はテキストプロンプト1つから画像を生成します。
func (c *GeminiImageCore) GenerateImages(ctx context.Context, model string, prompt string, opts ImageOptions) ([]domain.Part, error) {
	count := opts.SampleCount
	if count <= 0 {
		count = 1
	}
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		AspectRatio:    opts.AspectRatio,
	}

	c.logger.InfoContext(ctx, "画像生成APIにリクエストします", "model", model, "aspect_ratio", opts.AspectRatio, "samples", count)
	resp, err := c.models.GenerateImages(ctx, model, prompt, cfg)
	if err != nil {
		return nil, &domain.ServiceError{Op: "generate_images", Model: model, Err: err}
	}
	return PartsFromImages(resp), nil
}
