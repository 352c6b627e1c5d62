package adapters

import (
	"context"
	"slices"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/resolver"
)

// Capability はカタログ項目が対応すべき API アクションです。
type Capability string

const (
	// CapabilityGenerateContent はマルチモーダル生成 (generateContent) です。
	CapabilityGenerateContent Capability = "generateContent"
	// CapabilityPredict は専用画像生成 (predict) です。
	CapabilityPredict Capability = "predict"
)

// CatalogSource は現在の認証情報で使えるモデル一覧を取得します。
type CatalogSource interface {
	Catalog(ctx context.Context, capability Capability) ([]domain.ModelCatalogEntry, error)
}

// Catalog はモデル一覧を毎回サービスに問い合わせます。キャッシュはしません。
func (c *GeminiImageCore) Catalog(ctx context.Context, capability Capability) ([]domain.ModelCatalogEntry, error) {
	var out []domain.ModelCatalogEntry
	for m, err := range c.models.All(ctx) {
		if err != nil {
			return nil, &domain.ServiceError{Op: "list_models", Err: err}
		}
		if m == nil {
			continue
		}
		out = append(out, domain.ModelCatalogEntry{
			ID:                 resolver.Canonical(m.Name),
			SupportsGeneration: slices.Contains(m.SupportedActions, string(capability)),
		})
	}
	c.logger.DebugContext(ctx, "モデルカタログを取得しました", "capability", capability, "count", len(out))
	return out, nil
}
