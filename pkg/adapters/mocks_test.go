package adapters

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// mockModels は ModelService のテスト用モックなのだ。
type mockModels struct {
	generateFunc func(model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	imagesFunc   func(model, prompt string, cfg *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	models       []*genai.Model
	listErr      error
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, cfg)
	}
	return nil, nil
}

func (m *mockModels) GenerateImages(ctx context.Context, model string, prompt string, cfg *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	if m.imagesFunc != nil {
		return m.imagesFunc(model, prompt, cfg)
	}
	return nil, nil
}

func (m *mockModels) All(ctx context.Context) iter.Seq2[*genai.Model, error] {
	return func(yield func(*genai.Model, error) bool) {
		for _, model := range m.models {
			if !yield(model, nil) {
				return
			}
		}
		if m.listErr != nil {
			yield(nil, m.listErr)
		}
	}
}

// responseWith は1候補だけの応答を作るヘルパーなのだ。
func responseWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}
