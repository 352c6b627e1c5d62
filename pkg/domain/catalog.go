package domain

// ModelCatalogEntry はその時点で認証情報から利用できるモデル1件です。
type ModelCatalogEntry struct {
	ID                 string
	SupportsGeneration bool
}

// UsageSnapshot は利用回数集計のある時点のコピーです。
type UsageSnapshot struct {
	Total   int64            `json:"total"`
	PerCode map[string]int64 `json:"per_code"`
}
