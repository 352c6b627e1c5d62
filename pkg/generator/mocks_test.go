package generator

import (
	"context"

	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/adapters"
	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/imgutil"
)

// mockCore は adapters.ImageGeneratorCore のテスト用モックなのだ。
// 画像の準備だけは本物の正規化を通すのだ。
type mockCore struct {
	catalogs     map[adapters.Capability][]domain.ModelCatalogEntry
	catalogErr   error
	generateFunc func(model string, parts []*genai.Part, opts adapters.GenerateOptions) ([]domain.Part, error)
	imagesFunc   func(model, prompt string, opts adapters.ImageOptions) ([]domain.Part, error)

	calls []string // サービス呼び出しの記録
}

func (m *mockCore) Catalog(ctx context.Context, capability adapters.Capability) ([]domain.ModelCatalogEntry, error) {
	m.calls = append(m.calls, "catalog:"+string(capability))
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	return m.catalogs[capability], nil
}

func (m *mockCore) PrepareImagePart(blob domain.ImageBlob) (*genai.Part, *imgutil.Normalized, error) {
	norm, err := imgutil.Normalize(blob.Data, 64)
	if err != nil {
		return nil, nil, err
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: norm.MIMEType, Data: norm.Data}}, norm, nil
}

func (m *mockCore) GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts adapters.GenerateOptions) ([]domain.Part, error) {
	m.calls = append(m.calls, "generate_content:"+model)
	if m.generateFunc != nil {
		return m.generateFunc(model, parts, opts)
	}
	return nil, nil
}

func (m *mockCore) GenerateImages(ctx context.Context, model string, prompt string, opts adapters.ImageOptions) ([]domain.Part, error) {
	m.calls = append(m.calls, "generate_images:"+model)
	if m.imagesFunc != nil {
		return m.imagesFunc(model, prompt, opts)
	}
	return nil, nil
}

func contentCatalog(ids ...string) map[adapters.Capability][]domain.ModelCatalogEntry {
	entries := make([]domain.ModelCatalogEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.ModelCatalogEntry{ID: id, SupportsGeneration: true})
	}
	return map[adapters.Capability][]domain.ModelCatalogEntry{adapters.CapabilityGenerateContent: entries}
}
