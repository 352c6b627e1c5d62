package adapters

import (
	"context"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
)

// GenerateOptions はマルチモーダル生成呼び出しのオプションです。
type GenerateOptions struct {
	AspectRatio  string // 空なら指定しない
	Seed         *int64
	SystemPrompt string
	TextOnly     bool // true なら画像を要求しない（プロンプト作成・相談用）
}

// GenerateContent は画像とテキストのパーツ列を1つのユーザーメッセージとして送信し、
// 応答を domain.Part 列で返します。呼び出し自体の失敗は *domain.ServiceError です。
func (c *GeminiImageCore) GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts GenerateOptions) ([]domain.Part, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		Seed:               seedToPtrInt32(opts.Seed),
	}
	if opts.TextOnly {
		cfg.ResponseModalities = []string{string(genai.ModalityText)}
	} else if opts.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}
	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	c.logger.InfoContext(ctx, "Geminiに生成をリクエストします", "model", model, "parts", len(parts), "text_only", opts.TextOnly)
	resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, &domain.ServiceError{Op: "generate_content", Model: model, Err: err}
	}

	if reason, bad := abnormalFinish(resp); bad {
		c.logger.WarnContext(ctx, "生成が異常終了しました", "model", model, "finish_reason", reason)
	}
	return PartsFromResponse(resp), nil
}
