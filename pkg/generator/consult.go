package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/adapters"
	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/prompt"
)

// ConsultResult はデザイナー相談の回答です。
type ConsultResult struct {
	Text  string
	Model string
}

// Consult はインテリアデザイナーとして質問にテキストで回答します。
// 画像を生成しないため利用回数には数えません。
func (p *Pipeline) Consult(ctx context.Context, question string, images []domain.ImageBlob) (*ConsultResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for i, blob := range images {
		part, _, err := p.core.PrepareImagePart(blob)
		if err != nil {
			return nil, fmt.Errorf("添付画像 #%d を読み込めません: %w", i+1, err)
		}
		parts = append(parts, part)
	}
	parts = append(parts, genai.NewPartFromText(question))

	model, err := p.resolve(ctx, adapters.CapabilityGenerateContent, p.textPriority)
	if err != nil {
		return nil, err
	}

	out, err := p.core.GenerateContent(ctx, model, parts, adapters.GenerateOptions{
		TextOnly:     true,
		SystemPrompt: prompt.ConsultPersona,
	})
	if err != nil {
		return nil, fmt.Errorf("相談リクエストエラー: %w", err)
	}

	text := Extract(out).Text
	if strings.TrimSpace(text) == "" {
		return &ConsultResult{Model: model}, domain.ErrEmptyResponse
	}
	return &ConsultResult{Text: text, Model: model}, nil
}
